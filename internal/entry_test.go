package internal

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/salesdesk/internal/models"
)

func fsConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Storage.FS.Path = t.TempDir()
	return cfg
}

func TestImportThenDumpSnapshot(t *testing.T) {
	cfg := fsConfig(t)
	ctx := context.Background()

	csv := filepath.Join(t.TempDir(), "clients.csv")
	if err := os.WriteFile(csv, []byte("name,address,phone,email\nHarbor Grill,2 Pier Rd,555-0199,hi@harbor.test\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := Import(ctx, "clients", csv, &out, WithConfig(cfg), WithLogOutput(io.Discard)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != `{"kind":"clients","merged":1,"dropped":1}` {
		t.Errorf("import output = %s", got)
	}

	out.Reset()
	if err := DumpSnapshot(ctx, &out, WithConfig(cfg), WithLogOutput(io.Discard)); err != nil {
		t.Fatalf("DumpSnapshot: %v", err)
	}
	d, err := models.DecodeDataset(out.Bytes())
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	found := false
	for _, c := range d.Clients {
		if c.Name == "Harbor Grill" {
			found = true
		}
	}
	if !found {
		t.Error("imported client missing from persisted snapshot")
	}
}

func TestImport_UnknownKind(t *testing.T) {
	cfg := fsConfig(t)
	csv := filepath.Join(t.TempDir(), "x.csv")
	_ = os.WriteFile(csv, []byte("h\na"), 0o644)
	err := Import(context.Background(), "orders", csv, io.Discard, WithConfig(cfg), WithLogOutput(io.Discard))
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
