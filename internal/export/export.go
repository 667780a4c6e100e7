// Package export writes catalog snapshots as JSONL and ships them to
// destinations such as a local file or an S3 bucket.
package export

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/ideafactory/ideas/internal/model"
)

// FormatVersion is written into every snapshot header.
const FormatVersion = "1"

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	IdeaCount     int       `json:"idea_count"`
	FavoriteCount int       `json:"favorite_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Source yields the catalog items to export.
type Source interface {
	Snapshot(ctx context.Context) ([]model.CatalogItem, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]model.CatalogItem, error)

func (f SourceFunc) Snapshot(ctx context.Context) ([]model.CatalogItem, error) {
	return f(ctx)
}

// Loader is the part of catalog.Store a snapshot needs.
type Loader interface {
	Load(ctx context.Context) error
	Items() []model.CatalogItem
}

// StoreSource reloads the store and exports its full catalog, favorites
// included.
func StoreSource(l Loader) Source {
	return SourceFunc(func(ctx context.Context) ([]model.CatalogItem, error) {
		if err := l.Load(ctx); err != nil {
			return nil, err
		}
		return l.Items(), nil
	})
}

// ExportJSONL writes a snapshot from src as JSONL to w. Items are sorted
// by numeric ID.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	items, err := src.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot catalog: %w", err)
	}
	return WriteJSONL(w, items, time.Now().UTC())
}

// WriteJSONL writes a header followed by one "idea" record per item.
func WriteJSONL(w io.Writer, items []model.CatalogItem, at time.Time) error {
	items = slices.Clone(items)
	slices.SortFunc(items, compareIDs)

	favs := 0
	for _, it := range items {
		if it.IsFavorite {
			favs++
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:       FormatVersion,
		Type:          "header",
		Timestamp:     at,
		IdeaCount:     len(items),
		FavoriteCount: favs,
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range items {
		if err := enc.Encode(record{Type: "idea", Data: &items[i]}); err != nil {
			return fmt.Errorf("write idea %s: %w", items[i].ID, err)
		}
	}
	return nil
}

// compareIDs orders decimal IDs numerically without parsing them.
func compareIDs(a, b model.CatalogItem) int {
	if c := cmp.Compare(len(a.ID), len(b.ID)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
