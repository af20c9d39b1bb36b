// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match resolves a record to at most one knowledge base entity by
// trying its identifiers in a fixed order of trust.
package match

import (
	"sort"

	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Precedence is the order in which match kinds are consulted.
var Precedence = byRank(
	types.MatchISBN10,
	types.MatchISBN13,
	types.MatchControlNumber,
	types.MatchLegacyID,
	types.MatchPrimaryURI,
)

func byRank(kinds ...types.MatchKind) []types.MatchKind {
	sort.SliceStable(kinds, func(i, j int) bool { return kinds[i].Rank() < kinds[j].Rank() })
	return kinds
}

// Match returns the entity the keys resolve to. Keys are tried in
// Precedence order and the first key with any hit decides the outcome;
// later keys are not consulted. No hit at all means a new entity may be
// created. An ambiguous hit forbids upload.
func Match(keys []types.MatchKey, idx mapping.Indices) types.MatchResult {
	for _, kind := range Precedence {
		x := idx.Get(kind)
		if x == nil {
			continue
		}
		for _, key := range keys {
			if key.Kind != kind || key.Value == "" {
				continue
			}
			items := x.Lookup(key.Value)
			if len(items) == 0 {
				continue
			}
			return decide(key, items, x)
		}
	}
	return types.MatchResult{Outcome: types.OutcomeNone, Upload: true}
}

func decide(key types.MatchKey, items []string, x *mapping.Index) types.MatchResult {
	if len(items) > 1 {
		return ambiguous(key, items)
	}
	item := items[0]
	if key.Kind.Alternate() {
		if claims := x.Values(item); len(claims) > 1 {
			return ambiguous(key, claims)
		}
	}
	return types.MatchResult{
		Outcome: types.OutcomeMatched,
		KBID:    item,
		Upload:  true,
		Key:     key,
	}
}

func ambiguous(key types.MatchKey, candidates []string) types.MatchResult {
	c := append([]string(nil), candidates...)
	sort.Strings(c)
	return types.MatchResult{
		Outcome:    types.OutcomeAmbiguous,
		Upload:     false,
		Key:        key,
		Candidates: c,
	}
}
