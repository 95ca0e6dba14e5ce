package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
)

var allowedExt = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".mp4": {}, ".webm": {}, ".mov": {},
}

// DiskStore keeps uploads in a single directory under uuid based names.
type DiskStore struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger
	newName  func() string
}

// NewDiskStore creates the directory if needed. maxBytes <= 0 disables the size check.
func NewDiskStore(dir string, maxBytes int64, logger *slog.Logger) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("media dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DiskStore{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger,
		newName:  func() string { return uuid.NewString() },
	}, nil
}

// AllowedExtension reports whether files named like name may be stored.
func AllowedExtension(name string) bool {
	_, ok := allowedExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Save copies r into a new file and returns its stored name.
// The original name only contributes its extension.
func (s *DiskStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExt[ext]; !ok {
		return "", domainErrors.Newf(domainErrors.ErrValidation, "unsupported media file %q", originalName)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(tmp, src)
	if err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return "", domainErrors.Newf(domainErrors.ErrValidation, "media file %s exceeds %d bytes", originalName, s.maxBytes)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close media file: %w", err)
	}

	name := s.newName() + ext
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("rename media file: %w", err)
	}
	tmp = nil

	s.logger.Debug("media stored", slog.String("name", name), slog.Int64("bytes", n))
	return name, nil
}

// Remove deletes the named files. Missing files are ignored.
func (s *DiskStore) Remove(_ context.Context, names ...string) error {
	var errs []error
	for _, name := range names {
		path, err := s.Path(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ListOlderThan returns stored names whose modification time is before cutoff.
// Temporary files of uploads in progress are skipped.
func (s *DiskStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read media dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if info.ModTime().Before(cutoff) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Path resolves a stored name to its file path.
func (s *DiskStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", domainErrors.Newf(domainErrors.ErrNotFound, "media %q not found", name)
	}
	return filepath.Join(s.dir, name), nil
}
