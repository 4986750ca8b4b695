package crm

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/starford/salesdesk/internal/models"
)

// CSV import is positional: the first line is always discarded as a header,
// every other line is split on commas with no quoting or escaping. A comma
// inside a field shifts the fields after it.

// ImportResult summarizes one merge. Merged is the number of new entities.
type ImportResult struct {
	Merged  int `json:"merged"`
	Dropped int `json:"dropped"`
}

type importSpec struct {
	kind   ChangeKind
	prefix string
	width  int
	// apply appends the valid rows to next and returns how many it kept.
	apply func(next *models.Dataset, rows [][]string, id func(ordinal int) string) int
}

var clientImport = importSpec{
	kind:   ChangeClientsImported,
	prefix: clientPrefix,
	width:  4,
	apply: func(next *models.Dataset, rows [][]string, id func(int) string) int {
		var added []models.Client
		for i, f := range rows {
			if f[0] == "" || f[1] == "" || f[2] == "" || f[3] == "" {
				continue
			}
			added = append(added, models.Client{ID: id(i), Name: f[0], Address: f[1], Phone: f[2], Email: f[3]})
		}
		if len(added) > 0 {
			next.Clients = append(slices.Clip(next.Clients), added...)
		}
		return len(added)
	},
}

var productImport = importSpec{
	kind:   ChangeProductsImported,
	prefix: productPrefix,
	width:  3,
	apply: func(next *models.Dataset, rows [][]string, id func(int) string) int {
		var added []models.Product
		for i, f := range rows {
			unit, ok := models.ParseUnit(f[2])
			if f[0] == "" || f[1] == "" || !ok {
				continue
			}
			added = append(added, models.Product{ID: id(i), Name: f[0], Description: f[1], Unit: unit})
		}
		if len(added) > 0 {
			next.Products = append(slices.Clip(next.Products), added...)
		}
		return len(added)
	},
}

// MergeClients appends the valid client rows of text (name, address, phone,
// email). Rows with any empty field are dropped. Existing clients are never
// replaced or de-duplicated.
func (s *Store) MergeClients(ctx context.Context, text string) (ImportResult, error) {
	return s.merge(ctx, text, clientImport)
}

// MergeProducts appends the valid product rows of text (name, description,
// unit). Rows with an empty field or a unit other than case/pk are dropped.
func (s *Store) MergeProducts(ctx context.Context, text string) (ImportResult, error) {
	return s.merge(ctx, text, productImport)
}

func (s *Store) merge(ctx context.Context, text string, spec importSpec) (ImportResult, error) {
	rows := splitRecords(text, spec.width)
	var res ImportResult
	_, err := s.replace(ctx, func(next *models.Dataset) (Change, error) {
		batch := s.importStampLocked()
		res.Merged = spec.apply(next, rows, func(ordinal int) string {
			return importID(spec.prefix, batch, ordinal)
		})
		res.Dropped = len(rows) - res.Merged
		if res.Merged == 0 {
			return Change{}, errNoChange
		}
		return Change{Kind: spec.kind, Merged: res.Merged, Dropped: res.Dropped}, nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return ImportResult{}, err
	}
	s.logger.Info("crm: import finished",
		slog.String("kind", string(spec.kind)),
		slog.Int("merged", res.Merged),
		slog.Int("dropped", res.Dropped))
	return res, nil
}

// splitRecords drops the first line and splits every remaining line into
// exactly width trimmed fields. Missing trailing fields are empty and extra
// fields are ignored, so a blank line becomes a row of empty fields.
func splitRecords(text string, width int) [][]string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return nil
	}
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		fields := make([]string, width)
		parts := strings.Split(line, ",")
		for i := 0; i < width && i < len(parts); i++ {
			fields[i] = strings.TrimSpace(parts[i])
		}
		rows = append(rows, fields)
	}
	return rows
}
