package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/campusmarket/internal/adapter/media"
	"github.com/polkiloo/campusmarket/internal/app"
	"github.com/polkiloo/campusmarket/internal/config"
	"github.com/polkiloo/campusmarket/internal/logger"
	"github.com/polkiloo/campusmarket/internal/pkg/password"
	"github.com/polkiloo/campusmarket/internal/server/http/handlers"
	"github.com/polkiloo/campusmarket/internal/server/http/router"
	"github.com/polkiloo/campusmarket/internal/storage/postgres"
	"github.com/polkiloo/campusmarket/internal/telemetry"
	"github.com/polkiloo/campusmarket/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		telemetry.Module,
		password.Module,
		postgres.Module,
		media.Module,
		usecase.Module,
		fx.Provide(func(s *postgres.Storage) app.StoreHealth { return s }),
		fx.Provide(func(f *app.MarketFacade) handlers.MarketFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
