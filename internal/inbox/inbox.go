// Package inbox watches a drop directory for CSV exports and merges them
// into the CRM store.
//
// Files named clients*.csv are merged as clients and products*.csv as
// products. A processed file is renamed to <name>.done so it is never merged
// twice; files that cannot be read are left in place and logged.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/salesdesk/internal/crm"
)

// DoneSuffix is appended to a file once it has been merged.
const DoneSuffix = ".done"

// Kinds of import file.
const (
	KindClients  = "clients"
	KindProducts = "products"
)

const settleDelay = 200 * time.Millisecond

// Merger is the part of *crm.Store the inbox needs.
type Merger interface {
	MergeClients(ctx context.Context, text string) (crm.ImportResult, error)
	MergeProducts(ctx context.Context, text string) (crm.ImportResult, error)
}

// Result reports one merged file.
type Result struct {
	File string `json:"file"`
	Kind string `json:"kind"`
	crm.ImportResult
}

// Callback is called after each file is merged.
type Callback func(Result)

// Classify reports which kind of import a file name holds.
func Classify(name string) (string, bool) {
	base := strings.ToLower(filepath.Base(name))
	if !strings.HasSuffix(base, ".csv") {
		return "", false
	}
	switch {
	case strings.HasPrefix(base, KindClients):
		return KindClients, true
	case strings.HasPrefix(base, KindProducts):
		return KindProducts, true
	}
	return "", false
}

// Process merges one file and renames it to <path>.done.
func Process(ctx context.Context, m Merger, path string) (Result, error) {
	kind, ok := Classify(path)
	if !ok {
		return Result{}, fmt.Errorf("inbox: not an import file: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("inbox: read %s: %w", path, err)
	}

	merge := m.MergeClients
	if kind == KindProducts {
		merge = m.MergeProducts
	}
	res, err := merge(ctx, string(data))
	if err != nil {
		return Result{}, fmt.Errorf("inbox: merge %s: %w", path, err)
	}
	if err := os.Rename(path, path+DoneSuffix); err != nil {
		return Result{}, fmt.Errorf("inbox: mark done %s: %w", path, err)
	}
	return Result{File: filepath.Base(path), Kind: kind, ImportResult: res}, nil
}

// Sweep processes every pending import file already in dir, in name order.
func Sweep(ctx context.Context, m Merger, dir string, logger *slog.Logger, cb Callback) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("inbox: list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := Classify(e.Name()); ok && !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	for _, name := range names {
		handle(ctx, m, filepath.Join(dir, name), logger, cb)
	}
	return nil
}

func handle(ctx context.Context, m Merger, path string, logger *slog.Logger, cb Callback) {
	res, err := Process(ctx, m, path)
	if err != nil {
		logger.Warn("inbox: import failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	logger.Info("inbox: imported",
		slog.String("file", res.File),
		slog.String("kind", res.Kind),
		slog.Int("merged", res.Merged),
		slog.Int("dropped", res.Dropped))
	if cb != nil {
		cb(res)
	}
}

// Watch sweeps dir once and then merges import files as they are created or
// written, until ctx is cancelled. Bursts of events on one file are
// coalesced so a file is read only after writes settle.
func Watch(ctx context.Context, m Merger, dir string, logger *slog.Logger, cb Callback) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("inbox: mkdir %s: %w", dir, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("inbox: watch %s: %w", dir, err)
	}
	logger.Info("inbox: started", slog.String("dir", dir))

	if err := Sweep(ctx, m, dir, logger, cb); err != nil {
		logger.Warn("inbox: initial sweep failed", slog.String("error", err.Error()))
	}

	pending := make(map[string]*time.Timer)
	ready := make(chan string)

	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("inbox: stopped")
			return nil

		case path := <-ready:
			delete(pending, path)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			handle(ctx, m, path, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if _, ok := Classify(ev.Name); !ok {
				continue
			}
			if t, ok := pending[ev.Name]; ok {
				t.Reset(settleDelay)
				continue
			}
			path := ev.Name
			pending[path] = time.AfterFunc(settleDelay, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
