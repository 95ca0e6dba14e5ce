package media

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/campusmarket/internal/config"
	"github.com/polkiloo/campusmarket/internal/domain/repository"
)

// Module exposes the disk media store to the fx graph.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(func(s *DiskStore) repository.MediaStore { return s }),
)

type storeParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (*DiskStore, error) {
	return NewDiskStore(p.Config.MediaDir, p.Config.MaxUploadBytes, p.Logger)
}
