package repository

import (
	"context"
	"io"
	"time"
)

// MediaStore keeps uploaded listing files under opaque names.
type MediaStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, names ...string) error
	// ListOlderThan returns stored names last modified before cutoff.
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}
