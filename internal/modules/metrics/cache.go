package metrics

import (
	"sort"

	"github.com/aristath/readiness/internal/domain"
)

// RangeCache holds the locally known rows, unique by date and sorted ascending.
// The zero value is an empty cache. It has a single owner; see Service for the
// locking used when requests share one.
type RangeCache struct {
	rows []domain.MetricRow
}

// NewRangeCache creates a cache seeded with rows.
func NewRangeCache(seed ...domain.MetricRow) *RangeCache {
	c := &RangeCache{}
	c.Merge(seed)
	return c
}

// Merge coalesces fetched rows into the cache, storing clones. Existing rows win over fetched
// rows with the same date (stale-cache-wins). Merging the same rows twice is a no-op.
// Rows without a date are dropped.
func (c *RangeCache) Merge(fetched []domain.MetricRow) {
	seen := make(map[string]bool, len(c.rows)+len(fetched))
	merged := make([]domain.MetricRow, 0, len(c.rows)+len(fetched))

	for _, batch := range [][]domain.MetricRow{c.rows, fetched} {
		for _, row := range batch {
			if row.Date == "" || seen[row.Date] {
				continue
			}
			seen[row.Date] = true
			merged = append(merged, row.Clone())
		}
	}

	// YYYY-MM-DD sorts chronologically as text.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})
	c.rows = merged
}

// Len returns the number of cached days.
func (c *RangeCache) Len() int {
	return len(c.rows)
}

// Bounds returns the first and last cached dates. ok is false when empty.
func (c *RangeCache) Bounds() (first, last string, ok bool) {
	if len(c.rows) == 0 {
		return "", "", false
	}
	return c.rows[0].Date, c.rows[len(c.rows)-1].Date, true
}

// Covers reports whether [start, end] lies inside the cached window.
func (c *RangeCache) Covers(start, end string) bool {
	first, last, ok := c.Bounds()
	return ok && start >= first && end <= last
}

// Window returns a copy of the rows with start <= date <= end.
func (c *RangeCache) Window(start, end string) []domain.MetricRow {
	out := make([]domain.MetricRow, 0)
	for _, row := range c.rows {
		if row.Date >= start && row.Date <= end {
			out = append(out, row.Clone())
		}
	}
	return out
}

// Latest returns a copy of the n most recent rows.
func (c *RangeCache) Latest(n int) []domain.MetricRow {
	if n <= 0 {
		return []domain.MetricRow{}
	}
	if n > len(c.rows) {
		n = len(c.rows)
	}
	return c.copyOf(c.rows[len(c.rows)-n:])
}

// Rows returns a copy of every cached row.
func (c *RangeCache) Rows() []domain.MetricRow {
	return c.copyOf(c.rows)
}

// Reset empties the cache.
func (c *RangeCache) Reset() {
	c.rows = nil
}

func (c *RangeCache) copyOf(rows []domain.MetricRow) []domain.MetricRow {
	out := make([]domain.MetricRow, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}
