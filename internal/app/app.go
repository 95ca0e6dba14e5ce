package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/campusmarket/internal/config"
	"github.com/polkiloo/campusmarket/internal/usecase"
	"github.com/polkiloo/campusmarket/internal/worker"
)

// Module wires the marketplace facade, the HTTP API server and the media janitor.
var Module = fx.Options(
	fx.Provide(
		NewMarketFacade,
		newAPIServer,
		newMediaJanitor,
	),
	fx.Invoke(registerMarketLifecycle),
)

const (
	headerReadTimeout = 10 * time.Second
	// uploadFloorRate is the slowest client upload rate the server still waits for.
	uploadFloorRate = 256 << 10
	minBodyReadTime = 30 * time.Second
)

type apiServerParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
	Logger *slog.Logger
}

// newAPIServer serves the marketplace router. The body read deadline grows
// with the largest listing upload a seller may send in one request.
func newAPIServer(p apiServerParams) *http.Server {
	server := &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: headerReadTimeout,
		ReadTimeout:       listingUploadReadTimeout(p.Config.MaxUploadBytes),
	}
	if p.Logger != nil {
		server.ErrorLog = slog.NewLogLogger(p.Logger.Handler(), slog.LevelWarn)
	}
	return server
}

func listingUploadReadTimeout(maxUploadBytes int64) time.Duration {
	largest := maxUploadBytes * usecase.MaxListingMedia
	d := time.Duration(largest/uploadFloorRate) * time.Second
	if d < minBodyReadTime {
		return minBodyReadTime
	}
	return d
}

// janitorParams feeds the sweep of media files no listing references.
type janitorParams struct {
	fx.In

	Market *MarketFacade
	Config *config.Config
	Logger *slog.Logger
}

func newMediaJanitor(p janitorParams) *worker.MediaJanitor {
	grace := p.Config.JanitorGrace
	// A file younger than the body read deadline may belong to a listing still being created.
	if floor := listingUploadReadTimeout(p.Config.MaxUploadBytes); grace < floor {
		grace = floor
	}
	return worker.NewMediaJanitor(p.Market, p.Config.JanitorInterval, grace, p.Config.JanitorWorkers, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Janitor    *worker.MediaJanitor
	Config     *config.Config
}

func registerMarketLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting campusmarket",
				slog.String("addr", p.Server.Addr),
				slog.String("media_dir", p.Config.MediaDir),
				slog.Duration("janitor_interval", p.Config.JanitorInterval))
			// The start context ends once startup completes; the janitor outlives it.
			p.Janitor.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("api server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Stop sweeping first so no media file disappears under an in-flight upload.
			p.Janitor.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("campusmarket stopped")
			return nil
		},
	})
}
