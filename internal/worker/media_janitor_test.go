package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	testhelpers "github.com/polkiloo/campusmarket/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for janitor")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewMediaJanitorDefaults(t *testing.T) {
	j := NewMediaJanitor(&testhelpers.MediaFacadeStub{}, 0, time.Hour, 0, testLogger())
	if j.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", j.workers)
	}
	if j.interval != time.Hour {
		t.Fatalf("expected interval default to 1h, got %v", j.interval)
	}
}

func TestMediaJanitorRemovesOrphans(t *testing.T) {
	facade := &testhelpers.MediaFacadeStub{Batches: [][]string{{"a.jpg", "b.mp4", "c.png"}}}
	j := NewMediaJanitor(facade, 10*time.Millisecond, 24*time.Hour, 2, testLogger())
	fixed := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Start(context.Background())
	waitFor(t, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.Removed) == 3
	})
	j.Stop()

	facade.Lock()
	defer facade.Unlock()
	removed := append([]string(nil), facade.Removed...)
	sort.Strings(removed)
	if removed[0] != "a.jpg" || removed[1] != "b.mp4" || removed[2] != "c.png" {
		t.Fatalf("unexpected removals %v", removed)
	}
	if want := fixed.Add(-24 * time.Hour); !facade.Cutoffs[0].Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, facade.Cutoffs[0])
	}
}

func TestMediaJanitorSurvivesErrors(t *testing.T) {
	var calls int32
	facade := &testhelpers.MediaFacadeStub{
		OrphansFn: func(context.Context, time.Time) ([]string, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return nil, errors.New("store unavailable")
			}
			return []string{"bad.jpg", "good.jpg"}, nil
		},
		RemoveFn: func(_ context.Context, name string) error {
			if name == "bad.jpg" {
				return errors.New("permission denied")
			}
			return nil
		},
	}
	j := NewMediaJanitor(facade, 5*time.Millisecond, time.Hour, 1, testLogger())

	j.Start(context.Background())
	waitFor(t, func() bool {
		facade.Lock()
		defer facade.Unlock()
		return len(facade.Removed) > 0
	})
	j.Stop()

	if atomic.LoadInt32(&calls) < 2 {
		t.Fatalf("expected janitor to retry after a failed sweep, got %d calls", calls)
	}
	facade.Lock()
	defer facade.Unlock()
	for _, name := range facade.Removed {
		if name == "bad.jpg" {
			t.Fatal("failed removal must not be recorded")
		}
	}
}

func TestMediaJanitorStopsOnContextCancel(t *testing.T) {
	facade := &testhelpers.MediaFacadeStub{}
	j := NewMediaJanitor(facade, time.Hour, time.Hour, 2, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	j.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		j.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected janitor to stop")
	}

	// Stop is idempotent.
	j.Stop()
}
