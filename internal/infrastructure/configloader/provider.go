package configloader

import (
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/wire"
)

// ProviderSet exposes configuration-derived dependencies for Wire graphs.
var ProviderSet = wire.NewSet(
	ProvideServiceMetadata,
	ProvideServerConfig,
	ProvideDatabaseConfig,
	ProvideObservabilityConfig,
	ProvideTxConfig,
)

// ProvideServiceMetadata returns the resolved ServiceMetadata.
func ProvideServiceMetadata(b *Bundle) ServiceMetadata {
	if b == nil {
		return ServiceMetadata{}
	}
	return b.Service
}

// ProvideServerConfig returns the server section of the bootstrap configuration.
func ProvideServerConfig(b *Bundle) *ServerConfig {
	if b == nil || b.Bootstrap == nil {
		return nil
	}
	return &b.Bootstrap.Server
}

// ProvideDatabaseConfig returns the postgres section of the bootstrap configuration.
func ProvideDatabaseConfig(b *Bundle) *DatabaseConfig {
	if b == nil || b.Bootstrap == nil {
		return nil
	}
	return &b.Bootstrap.Data.Postgres
}

// ProvideObservabilityConfig exposes the normalized observability configuration.
func ProvideObservabilityConfig(b *Bundle) obswire.ObservabilityConfig {
	if b == nil {
		return obswire.ObservabilityConfig{}
	}
	return b.ObsConfig
}

// ProvideTxConfig exposes the transaction manager configuration.
func ProvideTxConfig(b *Bundle) txmanager.Config {
	if b == nil {
		return txmanager.Config{}
	}
	return b.TxConfig
}
