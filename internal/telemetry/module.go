package telemetry

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/campusmarket/internal/config"
)

// Module installs OpenTelemetry providers before any other component starts.
var Module = fx.Options(
	fx.Provide(newProviders),
	fx.Invoke(func(*Providers) {}),
)

type providersParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newProviders(p providersParams) (*Providers, error) {
	providers, err := Setup(context.Background(), p.Config.OTLPEndpoint, p.Config.ServiceName)
	if err != nil {
		return nil, err
	}
	if p.Config.OTLPEndpoint == "" {
		p.Logger.Info("otlp endpoint not configured, telemetry stays in process")
	} else {
		p.Logger.Info("exporting telemetry", slog.String("endpoint", p.Config.OTLPEndpoint))
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return providers.Shutdown(ctx)
		},
	})
	return providers, nil
}
