//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-person/internal/controllers"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/database"
	httpserver "github.com/bionicotaku/lingo-services-person/internal/infrastructure/http_server"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"
	"github.com/bionicotaku/lingo-services-person/internal/services"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(context.Context, *configloader.Bundle, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		database.ProviderSet,
		repositories.ProviderSet,
		services.ProviderSet,
		controllers.ProviderSet,
		httpserver.ProviderSet,
		newApp,
	))
}
