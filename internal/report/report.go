// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report collects the fields of a record that could not be used,
// so that someone can fix them by hand later.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Collector gathers the problems of one record.
type Collector struct {
	item   *types.CanonicalItem
	report types.ProblemReport
	seeded bool

	// repeats holds every raw value of a field recorded more than once.
	repeats map[string][]any
}

// NewCollector returns a collector for the record at sourceURL, which is
// being built into item.
func NewCollector(item *types.CanonicalItem, sourceURL string) *Collector {
	return &Collector{
		item:   item,
		report: types.ProblemReport{SourceURL: sourceURL, Problems: make(map[string]types.Problem)},
	}
}

// Record adds a problem for field. The first problem snapshots the item's
// knowledge base id, or leaves it empty for Backfill. A field recorded more
// than once keeps every raw value, as a list.
func (c *Collector) Record(field string, raw any, targetProperty string) {
	if !c.seeded {
		c.report.KBID, _ = c.item.KBID()
		c.seeded = true
	}
	prev, ok := c.report.Problems[field]
	if !ok {
		c.report.Problems[field] = types.Problem{Value: raw, TargetProperty: targetProperty}
		return
	}
	if c.repeats == nil {
		c.repeats = make(map[string][]any)
	}
	values, repeated := c.repeats[field]
	if !repeated {
		values = []any{prev.Value}
	}
	values = append(values, raw)
	c.repeats[field] = values
	if targetProperty == "" {
		targetProperty = prev.TargetProperty
	}
	c.report.Problems[field] = types.Problem{Value: values, TargetProperty: targetProperty}
}

// Backfill sets the knowledge base id once an entity has been created. It
// only fills an empty id.
func (c *Collector) Backfill(kbID string) {
	if c.report.KBID == "" {
		c.report.KBID = kbID
	}
}

// Empty reports whether nothing was recorded.
func (c *Collector) Empty() bool { return len(c.report.Problems) == 0 }

// Len returns the number of problem fields.
func (c *Collector) Len() int { return len(c.report.Problems) }

// Report returns the collected report.
func (c *Collector) Report() types.ProblemReport { return c.report }

// Batch accumulates the non-empty reports of a run.
type Batch struct {
	collectors []*Collector
}

// Add keeps c if it is non-empty. The collector is held by reference so a
// later Backfill is reflected in the written output.
func (b *Batch) Add(c *Collector) {
	if c == nil || c.Empty() {
		return
	}
	b.collectors = append(b.collectors, c)
}

// Len returns the number of kept reports.
func (b *Batch) Len() int { return len(b.collectors) }

// Reports returns the kept reports in the order they were added.
func (b *Batch) Reports() []types.ProblemReport {
	out := make([]types.ProblemReport, 0, len(b.collectors))
	for _, c := range b.collectors {
		out = append(out, c.Report())
	}
	return out
}

// WriteJSON writes the reports as one indented JSON array.
func (b *Batch) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b.Reports()); err != nil {
		return fmt.Errorf("encoding reports: %w", err)
	}
	return nil
}

// WriteFile writes the reports to path, creating parent directories. Nothing
// is written when the batch is empty.
func (b *Batch) WriteFile(path string) error {
	if b.Len() == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := b.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
