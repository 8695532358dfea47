package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// Source supplies candidate items in batches, pull-based so the engine never
// holds the full catalog in memory. NextBatch returns an empty slice once
// the source is exhausted.
type Source interface {
	NextBatch(ctx context.Context) ([]Item, error)
	// Total returns the number of candidates when known, or -1.
	Total() int
}

// ProgressFunc is invoked after each processed batch with the running count
// of processed candidates and the total (-1 when unknown).
type ProgressFunc func(processed, total int)

// SliceSource serves an in-memory item slice in fixed-size batches.
type SliceSource struct {
	items []Item
	batch int
	pos   int
}

// NewSliceSource wraps items in a batched source. A batchSize <= 0 serves
// everything in one batch.
func NewSliceSource(items []Item, batchSize int) *SliceSource {
	if batchSize <= 0 {
		batchSize = len(items)
		if batchSize == 0 {
			batchSize = 1
		}
	}
	return &SliceSource{items: items, batch: batchSize}
}

func (s *SliceSource) NextBatch(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.items) {
		return nil, nil
	}
	end := min(s.pos+s.batch, len(s.items))
	batch := s.items[s.pos:end]
	s.pos = end
	return batch, nil
}

func (s *SliceSource) Total() int {
	return len(s.items)
}

// LoadSnapshot reads a catalog snapshot (a JSON array of items) from a file
// and returns a batched source over it.
func LoadSnapshot(path string, batchSize int) (*SliceSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f, batchSize)
}

// ReadSnapshot decodes a JSON array of items from r.
func ReadSnapshot(r io.Reader, batchSize int) (*SliceSource, error) {
	var items []Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return NewSliceSource(items, batchSize), nil
}
