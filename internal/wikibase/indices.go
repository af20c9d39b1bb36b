// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikibase

import (
	"context"
	"fmt"
	"io"

	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// EditionIndices are the indices an edition import matches against.
var EditionIndices = []types.MatchKind{
	types.MatchPrimaryURI, types.MatchLegacyID, types.MatchISBN13, types.MatchISBN10,
}

// AuthorityIndices are the indices an authority import matches against.
var AuthorityIndices = []types.MatchKind{types.MatchPrimaryURI, types.MatchControlNumber}

// PairSource yields every (value, item) pair stated for a property.
type PairSource interface {
	Pairs(ctx context.Context, property string) ([]mapping.Pair, error)
}

// SnapshotStore persists fetched indices between runs.
type SnapshotStore interface {
	SaveIndex(ctx context.Context, kind types.MatchKind, property string, pairs []mapping.Pair) error
	LoadIndex(ctx context.Context, kind types.MatchKind) ([]mapping.Pair, error)
}

// IndexLoader builds identifier indices, either from the knowledge base or
// from the last saved snapshot.
type IndexLoader struct {
	Source     PairSource
	Snapshots  SnapshotStore
	Properties mapping.Table
	Offline    bool
}

// Load builds one index per kind. Any failure is a provisioning error: the
// run cannot match without its indices.
func (l *IndexLoader) Load(ctx context.Context, kinds []types.MatchKind, w io.Writer) (mapping.Indices, error) {
	out := make(mapping.Indices, len(kinds))
	for _, kind := range kinds {
		key, ok := mapping.IndexProperties[kind]
		if !ok {
			return nil, fmt.Errorf("no property for %s index", kind)
		}
		property, ok := l.Properties.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("%s index: property %q not in properties table", kind, key)
		}

		pairs, source, err := l.pairs(ctx, kind, property)
		if err != nil {
			return nil, fmt.Errorf("loading %s index: %w", kind, err)
		}
		x := mapping.BuildIndex(kind, pairs)
		out[kind] = x
		fmt.Fprintf(w, "  %s (%s, %s): %d values\n", kind, property, source, x.Len())
	}
	return out, nil
}

func (l *IndexLoader) pairs(ctx context.Context, kind types.MatchKind, property string) ([]mapping.Pair, string, error) {
	if l.Offline {
		if l.Snapshots == nil {
			return nil, "", fmt.Errorf("offline run without a store")
		}
		pairs, err := l.Snapshots.LoadIndex(ctx, kind)
		return pairs, "snapshot", err
	}

	pairs, err := l.Source.Pairs(ctx, property)
	if err != nil {
		return nil, "", err
	}
	if l.Snapshots != nil {
		if err := l.Snapshots.SaveIndex(ctx, kind, property, pairs); err != nil {
			return nil, "", err
		}
	}
	return pairs, "fetched", nil
}
