// Package testutil provides shared test helpers for building seeded stores.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/salesdesk/internal/crm"
	"github.com/starford/salesdesk/internal/storage"
)

// Now is the fixed clock used by Store: the seed's busiest day, mid-afternoon.
var Now = time.Date(2025, 9, 1, 15, 30, 0, 0, time.UTC)

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Store opens a seeded store over an in-memory provider with a fixed clock
// in UTC. Extra options are applied last.
func Store(t *testing.T, opts ...crm.Option) (*crm.Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	base := []crm.Option{
		crm.WithLogger(QuietLogger()),
		crm.WithClock(func() time.Time { return Now }),
		crm.WithLocation(time.UTC),
	}
	s, err := crm.Open(context.Background(), mem, append(base, opts...)...)
	if err != nil {
		t.Fatalf("crm.Open: %v", err)
	}
	return s, mem
}

// Eventually polls cond until it holds or timeout elapses.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}
