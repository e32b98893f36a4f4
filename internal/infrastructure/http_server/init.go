package httpserver

import (
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProviderSet bundles the HTTP server and telemetry providers for Wire.
var ProviderSet = wire.NewSet(
	NewTelemetry,
	NewHTTPServer,
	wire.Bind(new(ReadinessProbe), new(*pgxpool.Pool)),
)
