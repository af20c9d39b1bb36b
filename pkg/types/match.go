// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatchKind names an identifier type usable as a match key.
type MatchKind string

const (
	MatchPrimaryURI    MatchKind = "primary_uri"
	MatchLegacyID      MatchKind = "legacy_id"
	MatchISBN13        MatchKind = "isbn13"
	MatchISBN10        MatchKind = "isbn10"
	MatchControlNumber MatchKind = "control_number"
)

// Rank orders match kinds by trust; lower is more trusted.
func (k MatchKind) Rank() int {
	switch k {
	case MatchPrimaryURI:
		return 0
	case MatchLegacyID:
		return 1
	case MatchControlNumber:
		return 2
	case MatchISBN13:
		return 3
	case MatchISBN10:
		return 4
	default:
		return 99
	}
}

// Alternate reports whether the kind is a legacy-style alternate identifier
// subject to the many-sources-one-entity ambiguity check.
func (k MatchKind) Alternate() bool {
	return k == MatchLegacyID || k == MatchControlNumber
}

// MatchKey is one identifier extracted from a record.
type MatchKey struct {
	Kind  MatchKind `json:"kind" yaml:"kind"`
	Value string    `json:"value" yaml:"value"`
}

// MatchOutcome classifies a resolution result.
type MatchOutcome string

const (
	OutcomeNone      MatchOutcome = "none"
	OutcomeMatched   MatchOutcome = "matched"
	OutcomeAmbiguous MatchOutcome = "ambiguous"
)

// MatchResult is the outcome of resolving a record to a knowledge base entity.
type MatchResult struct {
	Outcome MatchOutcome `json:"outcome" yaml:"outcome"`

	// KBID is the matched entity, empty for OutcomeNone and OutcomeAmbiguous.
	KBID string `json:"kb_id,omitempty" yaml:"kb_id,omitempty"`

	// Upload is false only for ambiguous matches.
	Upload bool `json:"upload" yaml:"upload"`

	// Key is the identifier that decided the outcome, zero for OutcomeNone.
	Key MatchKey `json:"key,omitempty" yaml:"key,omitempty"`

	// Candidates lists the competing entities or source ids on ambiguity.
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}
