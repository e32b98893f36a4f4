// Package metadata 提供 HandlerMetadata 在 Context 中的存取工具，供控制器、服务层与日志共享。
package metadata

import (
	"context"

	"github.com/google/uuid"
)

// HandlerMetadata 描述从请求头或上游链路解析出的上下文信息。
type HandlerMetadata struct {
	RequestID string
	UserID    string
}

// IsZero 判断 Metadata 是否为空。
func (m HandlerMetadata) IsZero() bool {
	return m.RequestID == "" && m.UserID == ""
}

type ctxKey struct{}

// Inject 将 HandlerMetadata 注入 Context。
func Inject(ctx context.Context, meta HandlerMetadata) context.Context {
	if meta.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, meta)
}

// FromContext 读取上游注入的 HandlerMetadata。
func FromContext(ctx context.Context) (HandlerMetadata, bool) {
	if ctx == nil {
		return HandlerMetadata{}, false
	}
	meta, ok := ctx.Value(ctxKey{}).(HandlerMetadata)
	return meta, ok
}

// RequestID 返回 Context 中的请求 ID，不存在时返回空串。
func RequestID(ctx context.Context) string {
	meta, _ := FromContext(ctx)
	return meta.RequestID
}

// UserID 返回上游透传的用户 ID，不存在时返回空串。
func UserID(ctx context.Context) string {
	meta, _ := FromContext(ctx)
	return meta.UserID
}

// NewRequestID 生成新的请求 ID。
func NewRequestID() string {
	return uuid.NewString()
}
