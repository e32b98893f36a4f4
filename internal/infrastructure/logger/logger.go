// Package logger 构建带 trace/span/request 关联字段的 Kratos 日志器。
package logger

import (
	"context"

	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-person/internal/metadata"

	gclog "github.com/bionicotaku/lingo-utils/gclog"
	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"
)

// Config captures runtime metadata used to annotate logs.
type Config struct {
	Service string
	Version string
	HostID  string
	Env     string
}

// FromServiceMetadata 将配置加载得到的服务元信息转换为日志配置。
func FromServiceMetadata(meta configloader.ServiceMetadata) Config {
	return Config{
		Service: meta.Name,
		Version: meta.Version,
		HostID:  meta.InstanceID,
		Env:     meta.Environment,
	}
}

// NewLogger builds a Kratos-compatible logger with trace/span/request/user enrichment.
func NewLogger(cfg Config) (log.Logger, error) {
	baseLogger, err := gclog.NewLogger(
		gclog.WithService(cfg.Service),
		gclog.WithVersion(cfg.Version),
		gclog.WithEnvironment(cfg.Env),
		gclog.WithStaticLabels(map[string]string{"service.id": cfg.HostID}),
		gclog.EnableSourceLocation(),
	)
	if err != nil {
		return nil, err
	}
	return log.With(
		baseLogger,
		"trace_id", TraceID(),
		"span_id", SpanID(),
		"request_id", RequestID(),
		"user_id", UserID(),
	), nil
}

// TraceID 返回读取当前 span trace_id 的 Valuer。
func TraceID() log.Valuer {
	return func(ctx context.Context) interface{} {
		sc := trace.SpanContextFromContext(ctx)
		if sc.HasTraceID() {
			return sc.TraceID().String()
		}
		return ""
	}
}

// SpanID 返回读取当前 span_id 的 Valuer。
func SpanID() log.Valuer {
	return func(ctx context.Context) interface{} {
		sc := trace.SpanContextFromContext(ctx)
		if sc.HasSpanID() {
			return sc.SpanID().String()
		}
		return ""
	}
}

// RequestID 返回读取请求 ID 的 Valuer。
func RequestID() log.Valuer {
	return func(ctx context.Context) interface{} {
		if ctx == nil {
			return ""
		}
		return metadata.RequestID(ctx)
	}
}

// UserID 返回读取上游用户 ID 的 Valuer。
func UserID() log.Valuer {
	return func(ctx context.Context) interface{} {
		if ctx == nil {
			return ""
		}
		return metadata.UserID(ctx)
	}
}
