package test

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MediaStoreStub keeps saved files in memory.
type MediaStoreStub struct {
	mu sync.Mutex

	Files    map[string][]byte
	Modified map[string]time.Time
	Removed  []string

	// SaveErr is returned once FailAfter files have been saved.
	SaveErr   error
	FailAfter int
	RemoveErr error
	ListErr   error

	next int
}

// NewMediaStoreStub constructs an empty stub.
func NewMediaStoreStub() *MediaStoreStub {
	return &MediaStoreStub{Files: make(map[string][]byte), Modified: make(map[string]time.Time)}
}

func (s *MediaStoreStub) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil && s.next >= s.FailAfter {
		return "", s.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.next++
	name := fmt.Sprintf("media-%d%s", s.next, filepath.Ext(originalName))
	s.Files[name] = data
	s.Modified[name] = time.Now()
	return name, nil
}

func (s *MediaStoreStub) Remove(ctx context.Context, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	for _, n := range names {
		delete(s.Files, n)
		delete(s.Modified, n)
		s.Removed = append(s.Removed, n)
	}
	return nil
}

func (s *MediaStoreStub) ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	var out []string
	for name, mod := range s.Modified {
		if mod.Before(cutoff) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Put stores a file with the given modification time.
func (s *MediaStoreStub) Put(name string, data []byte, modified time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[name] = data
	s.Modified[name] = modified
}

// Names returns currently stored file names.
func (s *MediaStoreStub) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Files))
	for n := range s.Files {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// RemovedNames returns names passed to Remove so far.
func (s *MediaStoreStub) RemovedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Removed...)
}
