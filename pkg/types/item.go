// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Stage is a point in the per-record resolution lifecycle. Stages only move
// forward: Extracted, Matched, Built, Deduplicated, Finalized.
type Stage int

const (
	StageExtracted Stage = iota
	StageMatched
	StageBuilt
	StageDeduplicated
	StageFinalized
)

func (s Stage) String() string {
	switch s {
	case StageExtracted:
		return "extracted"
	case StageMatched:
		return "matched"
	case StageBuilt:
		return "built"
	case StageDeduplicated:
		return "deduplicated"
	case StageFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

var (
	// ErrStageRegression is returned when a lifecycle transition would move
	// an item backwards.
	ErrStageRegression = errors.New("lifecycle stage cannot move backwards")

	// ErrAlreadyConsumed is returned when a finalized item is handed to a
	// consumer a second time.
	ErrAlreadyConsumed = errors.New("item already consumed")

	// ErrNotFinalized is returned when an item is consumed before the
	// resolution pass has finished.
	ErrNotFinalized = errors.New("item not finalized")
)

// Label is a language-tagged label, description or alias.
type Label struct {
	Lang string `json:"lang" yaml:"lang"`
	Text string `json:"text" yaml:"text"`
}

// Qualifier refines a statement. Qualifiers carry no reference of their own.
type Qualifier struct {
	Property string `json:"property" yaml:"property"`
	Value    Value  `json:"value" yaml:"value"`
}

// Reference is the provenance bundle attached to statements. One Reference
// is built per source record and shared by pointer across its statements.
type Reference struct {
	StatedIn        string `json:"stated_in" yaml:"stated_in"`
	PublicationDate *Date  `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	URL             string `json:"url,omitempty" yaml:"url,omitempty"`
	Retrieved       Date   `json:"retrieved" yaml:"retrieved"`
}

// Statement is a single (property, value) claim. Property is a domain key
// from the properties mapping table, translated to a knowledge base
// property id at upload time.
type Statement struct {
	Property   string      `json:"property" yaml:"property"`
	Value      Value       `json:"value" yaml:"value"`
	Qualifiers []Qualifier `json:"qualifiers,omitempty" yaml:"qualifiers,omitempty"`
	Reference  *Reference  `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// CanonicalItem is the aggregate built from one source record: labels,
// descriptions, statements, the match result and the upload gate.
//
// The knowledge base id is set at most once and the upload flag can only
// go from true to false. Both are reachable only through methods so that no
// call site can reset them.
type CanonicalItem struct {
	Labels       []Label
	Descriptions []Label
	Statements   []Statement

	kbID         string
	disqualified bool
	reason       string
	stage        Stage
	consumed     bool
}

// NewCanonicalItem returns an empty item that may be uploaded.
func NewCanonicalItem() *CanonicalItem {
	return &CanonicalItem{stage: StageExtracted}
}

// KBID returns the matched knowledge base id, if any.
func (c *CanonicalItem) KBID() (string, bool) {
	return c.kbID, c.kbID != ""
}

// Associate records the matched knowledge base id. Only the first non-empty
// id is kept; it reports whether this call set it.
func (c *CanonicalItem) Associate(id string) bool {
	if id == "" || c.kbID != "" {
		return false
	}
	c.kbID = id
	return true
}

// Disqualify permanently blocks upload of this item. The first reason is kept.
func (c *CanonicalItem) Disqualify(reason string) {
	if !c.disqualified {
		c.reason = reason
	}
	c.disqualified = true
}

// Upload reports whether the item may be uploaded.
func (c *CanonicalItem) Upload() bool { return !c.disqualified }

// DisqualifiedReason returns why upload was blocked, or "".
func (c *CanonicalItem) DisqualifiedReason() string { return c.reason }

// Stage returns the current lifecycle stage.
func (c *CanonicalItem) Stage() Stage { return c.stage }

// Advance moves the item to the given stage. Moving backwards is an error;
// advancing to the current stage is a no-op.
func (c *CanonicalItem) Advance(to Stage) error {
	if to < c.stage {
		return fmt.Errorf("%w: %s -> %s", ErrStageRegression, c.stage, to)
	}
	c.stage = to
	return nil
}

// Consume marks a finalized item as handed off. A second call fails.
func (c *CanonicalItem) Consume() error {
	if c.stage != StageFinalized {
		return fmt.Errorf("%w: stage %s", ErrNotFinalized, c.stage)
	}
	if c.consumed {
		return ErrAlreadyConsumed
	}
	c.consumed = true
	return nil
}

// AddLabel appends a label.
func (c *CanonicalItem) AddLabel(lang, text string) {
	c.Labels = append(c.Labels, Label{Lang: lang, Text: text})
}

// AddDescription appends a description.
func (c *CanonicalItem) AddDescription(lang, text string) {
	c.Descriptions = append(c.Descriptions, Label{Lang: lang, Text: text})
}

// AddStatement appends a statement.
func (c *CanonicalItem) AddStatement(s Statement) {
	c.Statements = append(c.Statements, s)
}

// StatementsFor returns the statements with the given property key.
func (c *CanonicalItem) StatementsFor(property string) []Statement {
	var out []Statement
	for _, s := range c.Statements {
		if s.Property == property {
			out = append(out, s)
		}
	}
	return out
}

// RemoveStatements drops every statement for which drop returns true and
// returns how many were removed.
func (c *CanonicalItem) RemoveStatements(drop func(Statement) bool) int {
	kept := c.Statements[:0]
	removed := 0
	for _, s := range c.Statements {
		if drop(s) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	c.Statements = kept
	return removed
}

// itemView is the serialized form of a CanonicalItem.
type itemView struct {
	KBID         string      `json:"kb_id" yaml:"kb_id"`
	Upload       bool        `json:"upload" yaml:"upload"`
	Reason       string      `json:"disqualified_reason,omitempty" yaml:"disqualified_reason,omitempty"`
	Stage        string      `json:"stage" yaml:"stage"`
	Labels       []Label     `json:"labels" yaml:"labels"`
	Descriptions []Label     `json:"descriptions" yaml:"descriptions"`
	Statements   []Statement `json:"statements" yaml:"statements"`
}

func (c *CanonicalItem) view() itemView {
	return itemView{
		KBID:         c.kbID,
		Upload:       c.Upload(),
		Reason:       c.reason,
		Stage:        c.stage.String(),
		Labels:       c.Labels,
		Descriptions: c.Descriptions,
		Statements:   c.Statements,
	}
}

// MarshalJSON exposes the private match and gate state for export.
func (c *CanonicalItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.view())
}

// MarshalYAML exposes the private match and gate state for export.
func (c *CanonicalItem) MarshalYAML() (any, error) {
	return c.view(), nil
}
