package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/campusmarket/internal/config"
	testhelpers "github.com/polkiloo/campusmarket/internal/test"
	"github.com/polkiloo/campusmarket/internal/worker"
)

func newTestJanitor() *worker.MediaJanitor {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return worker.NewMediaJanitor(&testhelpers.MediaFacadeStub{}, 10*time.Millisecond, time.Hour, 1, logger)
}

func TestNewAPIServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999", MaxUploadBytes: 1 << 20}
	router := gin.New()
	server := newAPIServer(apiServerParams{Config: cfg, Router: router, Logger: slog.New(slog.NewJSONHandler(io.Discard, nil))})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
	if server.ReadHeaderTimeout <= 0 {
		t.Fatalf("expected read header timeout to be set")
	}
	if server.ReadTimeout != minBodyReadTime {
		t.Fatalf("expected small uploads to use the minimum read time, got %s", server.ReadTimeout)
	}
	if server.ErrorLog == nil {
		t.Fatalf("expected server errors to go through the logger")
	}
}

func TestListingUploadReadTimeout(t *testing.T) {
	if got := listingUploadReadTimeout(0); got != minBodyReadTime {
		t.Fatalf("expected %s, got %s", minBodyReadTime, got)
	}
	// 10 files of 50 MiB at 256 KiB/s.
	if got := listingUploadReadTimeout(50 << 20); got != 2000*time.Second {
		t.Fatalf("expected 2000s, got %s", got)
	}
}

func TestNewMediaJanitorUsesConfig(t *testing.T) {
	janitor := newMediaJanitor(janitorParams{
		Market: &MarketFacade{},
		Config: &config.Config{JanitorInterval: time.Minute, JanitorGrace: time.Second, JanitorWorkers: 3, MaxUploadBytes: 1 << 20},
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if janitor == nil {
		t.Fatal("expected janitor instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond}

	registerMarketLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Janitor:    newTestJanitor(),
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	server := &http.Server{Addr: "bad addr"}

	registerMarketLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Janitor:    newTestJanitor(),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}

func TestLifecycleRecorderAppend(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	recorder.Append(fx.Hook{})
	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected hook to be appended")
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
}
