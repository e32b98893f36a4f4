package controllers

import (
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/configloader"

	"github.com/google/wire"
)

// ProviderSet exposes controller/handler constructors for DI.
var ProviderSet = wire.NewSet(
	ProvideBaseHandler,
	NewPersonHandler,
)

// ProvideBaseHandler 根据配置中的 handler 超时构造 BaseHandler。
func ProvideBaseHandler(cfg *configloader.ServerConfig) *BaseHandler {
	if cfg == nil {
		return NewBaseHandler(HandlerTimeouts{})
	}
	return NewBaseHandler(HandlerTimeouts{
		Default: cfg.Handlers.DefaultTimeout.Duration(),
		Command: cfg.Handlers.CommandTimeout.Duration(),
		Query:   cfg.Handlers.QueryTimeout.Duration(),
	})
}
