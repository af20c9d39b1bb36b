// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Problem is one field that failed extraction or matching.
type Problem struct {
	// Value is the raw source value that could not be used.
	Value any `json:"value" yaml:"value"`

	// TargetProperty is the knowledge base property the value was meant for,
	// when known.
	TargetProperty string `json:"target_property,omitempty" yaml:"target_property,omitempty"`
}

// ProblemReport collects the problems of one source record for human review.
// KBID stays empty until the matched or created entity is known.
type ProblemReport struct {
	KBID      string             `json:"kb_id" yaml:"kb_id"`
	SourceURL string             `json:"source_url" yaml:"source_url"`
	Problems  map[string]Problem `json:"problems" yaml:"problems"`
}
