package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/polkiloo/campusmarket/internal/domain/repository"
)

const referenceBatchSize = 500

// MediaUseCase finds and removes stored files that no listing references.
type MediaUseCase struct {
	uow     repository.UnitOfWork
	media   repository.MediaStore
	logger  *slog.Logger
	removed metric.Int64Counter
}

// NewMediaUseCase constructs MediaUseCase.
func NewMediaUseCase(uow repository.UnitOfWork, media repository.MediaStore, logger *slog.Logger) *MediaUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaUseCase{
		uow:     uow,
		media:   media,
		logger:  logger,
		removed: int64Counter("campusmarket.media.orphans_removed", "Orphaned media files removed by the janitor"),
	}
}

// Orphans returns stored files older than cutoff that no listing media row references.
func (u *MediaUseCase) Orphans(ctx context.Context, cutoff time.Time) (orphans []string, err error) {
	ctx, span := startSpan(ctx, "media.orphans", attribute.String("cutoff", cutoff.Format(time.RFC3339)))
	defer func() { endSpan(span, err) }()

	candidates, err := u.media.ListOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for start := 0; start < len(candidates); start += referenceBatchSize {
		end := min(start+referenceBatchSize, len(candidates))
		batch := candidates[start:end]
		referenced, err := u.uow.Listings().ReferencedMedia(ctx, batch)
		if err != nil {
			return nil, err
		}
		inUse := make(map[string]struct{}, len(referenced))
		for _, name := range referenced {
			inUse[name] = struct{}{}
		}
		for _, name := range batch {
			if _, ok := inUse[name]; !ok {
				orphans = append(orphans, name)
			}
		}
	}
	span.SetAttributes(attribute.Int("media.candidates", len(candidates)), attribute.Int("media.orphans", len(orphans)))
	return orphans, nil
}

// Remove deletes one orphaned file.
func (u *MediaUseCase) Remove(ctx context.Context, name string) error {
	if err := u.media.Remove(ctx, name); err != nil {
		return err
	}
	u.removed.Add(ctx, 1)
	u.logger.Info("orphaned media removed", slog.String("name", name))
	return nil
}
