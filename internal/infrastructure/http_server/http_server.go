// Package httpserver wires the inbound HTTP server, its middleware stack and operational endpoints.
package httpserver

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/bionicotaku/lingo-services-person/internal/controllers"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/configloader"

	obsTrace "github.com/bionicotaku/lingo-utils/observability/tracing"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	kmetrics "github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/go-kratos/kratos/v2/middleware/ratelimit"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readinessTimeout = 2 * time.Second

// ReadinessProbe 检查下游依赖是否可用，*pgxpool.Pool 满足该接口。
type ReadinessProbe interface {
	Ping(ctx context.Context) error
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *configloader.ServerConfig,
	tel *Telemetry,
	probe ReadinessProbe,
	person *controllers.PersonHandler,
	logger log.Logger,
) *khttp.Server {
	var prefixes []string
	if c != nil {
		prefixes = c.MetadataPrefixes
	}

	mws := []middleware.Middleware{
		obsTrace.Server(),
		recovery.Recovery(),
		metadata.Server(metadata.WithPropagatedPrefix(prefixes...)),
		ratelimit.Server(),
	}
	if tel != nil {
		mws = append(mws, kmetrics.Server(
			kmetrics.WithRequests(tel.RequestCounter),
			kmetrics.WithSeconds(tel.SecondsHistogram),
		))
	}
	mws = append(mws, logging.Server(logger))

	opts := []khttp.ServerOption{
		khttp.Middleware(mws...),
		khttp.ErrorEncoder(encodeError),
	}
	if c != nil {
		if c.HTTP.Network != "" {
			opts = append(opts, khttp.Network(c.HTTP.Network))
		}
		if c.HTTP.Addr != "" {
			opts = append(opts, khttp.Address(c.HTTP.Addr))
		}
		if t := c.HTTP.Timeout.Duration(); t > 0 {
			opts = append(opts, khttp.Timeout(t))
		}
	}

	srv := khttp.NewServer(opts...)

	srv.Handle("/healthz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	}))
	srv.Handle("/readyz", readinessHandler(probe, logger))
	if tel != nil && tel.PrometheusRegistry != nil {
		srv.Handle("/metrics", promhttp.HandlerFor(tel.PrometheusRegistry, promhttp.HandlerOpts{}))
	}

	controllers.RegisterPersonHTTPServer(srv, person)
	return srv
}

func readinessHandler(probe ReadinessProbe, logger log.Logger) stdhttp.Handler {
	helper := log.NewHelper(logger)
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if probe == nil {
			w.WriteHeader(stdhttp.StatusOK)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := probe.Ping(ctx); err != nil {
			helper.WithContext(ctx).Warnf("readiness check failed: %v", err)
			w.WriteHeader(stdhttp.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(stdhttp.StatusOK)
	})
}
