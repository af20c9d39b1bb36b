// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

type fakeReader struct {
	dates map[string][]types.Date
	err   error
	calls []string
}

func (f *fakeReader) Dates(_ context.Context, kbID, property string) ([]types.Date, error) {
	f.calls = append(f.calls, kbID+"/"+property)
	if f.err != nil {
		return nil, f.err
	}
	return f.dates[property], nil
}

func props() mapping.Table {
	return mapping.NewTable(map[string]string{"date_of_birth": "P569", "date_of_death": "P570"})
}

func yearOnly(y int) types.Date { return types.Date{Year: y, Precision: types.PrecisionYear} }

func day(y, m, d int) types.Date {
	return types.Date{Year: y, Month: m, Day: d, Precision: types.PrecisionDay}
}

func TestRedundant(t *testing.T) {
	tests := []struct {
		name      string
		existing  []types.Date
		candidate types.Date
		want      bool
	}{
		{"finer existing, same year", []types.Date{day(1999, 12, 1)}, yearOnly(1999), true},
		{"finer existing, other year", []types.Date{day(1999, 12, 1)}, yearOnly(1998), false},
		{"equal precision, same year", []types.Date{yearOnly(1954)}, yearOnly(1954), true},
		{"coarser existing", []types.Date{yearOnly(1954)}, day(1954, 3, 2), false},
		{"same day", []types.Date{day(1954, 3, 2)}, day(1954, 3, 2), true},
		{"nothing stored", nil, yearOnly(1954), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redundant(tt.existing, tt.candidate))
		})
	}
}

func dated(kbID string, born, died types.Date) *types.CanonicalItem {
	item := types.NewCanonicalItem()
	if kbID != "" {
		item.Associate(kbID)
	}
	item.AddStatement(types.Statement{Property: "date_of_birth", Value: types.TimeValue(born)})
	item.AddStatement(types.Statement{Property: "date_of_death", Value: types.TimeValue(died)})
	item.AddStatement(types.Statement{Property: "family_name", Value: types.EntityValue("Q1")})
	return item
}

func TestApplyDropsRedundantDates(t *testing.T) {
	reader := &fakeReader{dates: map[string][]types.Date{
		"P569": {day(1999, 12, 1)},
		"P570": {yearOnly(2040)},
	}}
	item := dated("Q7", yearOnly(1999), yearOnly(2041))

	dropped, err := NewFilter(reader, props()).Apply(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Empty(t, item.StatementsFor("date_of_birth"))
	assert.Len(t, item.StatementsFor("date_of_death"), 1)
	assert.Len(t, item.StatementsFor("family_name"), 1)
	assert.ElementsMatch(t, []string{"Q7/P569", "Q7/P570"}, reader.calls)
}

func TestApplyKeepsDifferentYear(t *testing.T) {
	reader := &fakeReader{dates: map[string][]types.Date{"P569": {day(1999, 12, 1)}}}
	item := dated("Q7", yearOnly(1998), yearOnly(2041))

	dropped, err := NewFilter(reader, props()).Apply(context.Background(), item)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Len(t, item.Statements, 3)
}

func TestApplySkipsUnmatched(t *testing.T) {
	reader := &fakeReader{}
	item := dated("", yearOnly(1999), yearOnly(2041))

	dropped, err := NewFilter(reader, props()).Apply(context.Background(), item)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Empty(t, reader.calls)
}

func TestApplySkipsPlaceholderIDs(t *testing.T) {
	reader := &fakeReader{}
	item := dated("5f0c2a1e-7d1b-4c55-9a0e-3b8e4f6d2c11", yearOnly(1999), yearOnly(2041))

	dropped, err := NewFilter(reader, props()).Apply(context.Background(), item)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Empty(t, reader.calls)
}

func TestApplyReaderFailure(t *testing.T) {
	reader := &fakeReader{err: errors.New("503")}
	item := dated("Q7", yearOnly(1999), yearOnly(2041))

	_, err := NewFilter(reader, props()).Apply(context.Background(), item)
	require.Error(t, err)
	assert.Len(t, item.Statements, 3, "item untouched on failure")
}
