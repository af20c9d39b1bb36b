// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe drops birth and death dates that the matched entity
// already states at the same year with at least the same precision.
package dedupe

import (
	"context"
	"fmt"

	"github.com/Vesihiisi/Biblioteksdata/internal/claims"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// DateProperties are the property keys the filter checks.
var DateProperties = []string{"date_of_birth", "date_of_death"}

// DateReader reads the dates an entity currently states for a property.
// property is a knowledge base property id such as "P569".
type DateReader interface {
	Dates(ctx context.Context, kbID, property string) ([]types.Date, error)
}

// Filter removes redundant date statements from matched items.
type Filter struct {
	reader     DateReader
	properties mapping.Table
}

// NewFilter returns a filter that reads existing dates through reader and
// translates property keys through properties.
func NewFilter(reader DateReader, properties mapping.Table) *Filter {
	return &Filter{reader: reader, properties: properties}
}

// Redundant reports whether candidate adds nothing to existing: some
// existing date has the same year and equal or finer precision.
func Redundant(existing []types.Date, candidate types.Date) bool {
	for _, e := range existing {
		if e.Year == candidate.Year && e.Precision >= candidate.Precision {
			return true
		}
	}
	return false
}

// Apply drops redundant date statements from item and returns how many
// were dropped. Unmatched items, and items whose id is not a knowledge base
// item id, are left alone. A read failure leaves the
// item unchanged and is returned.
func (f *Filter) Apply(ctx context.Context, item *types.CanonicalItem) (int, error) {
	kbID, ok := item.KBID()
	if !ok || !claims.IsEntityID(kbID) {
		return 0, nil
	}

	existing := make(map[string][]types.Date)
	for _, key := range DateProperties {
		if len(item.StatementsFor(key)) == 0 {
			continue
		}
		pid, ok := f.properties.Lookup(key)
		if !ok {
			return 0, fmt.Errorf("no property id for %s", key)
		}
		dates, err := f.reader.Dates(ctx, kbID, pid)
		if err != nil {
			return 0, fmt.Errorf("reading %s of %s: %w", pid, kbID, err)
		}
		existing[key] = dates
	}
	if len(existing) == 0 {
		return 0, nil
	}

	return item.RemoveStatements(func(s types.Statement) bool {
		dates, checked := existing[s.Property]
		if !checked || s.Value.Kind != types.KindTime || s.Value.Time == nil {
			return false
		}
		return Redundant(dates, *s.Value.Time)
	}), nil
}
