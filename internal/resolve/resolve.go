// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns one catalog record into a finalized CanonicalItem.
//
// A Pipeline runs the lifecycle Extracted, Matched, Built, Deduplicated,
// Finalized for one record before the next record starts. What is built is
// decided by the pipeline's steps: small functions that each read one group
// of fields and add statements, labels or problems.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vesihiisi/Biblioteksdata/internal/claims"
	"github.com/Vesihiisi/Biblioteksdata/internal/dedupe"
	"github.com/Vesihiisi/Biblioteksdata/internal/extract"
	"github.com/Vesihiisi/Biblioteksdata/internal/logger"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/match"
	"github.com/Vesihiisi/Biblioteksdata/internal/names"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/internal/report"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// DefaultURLTemplate formats the reference URL of a record.
const DefaultURLTemplate = "https://libris.kb.se/katalogisering/%s"

// Property keys every pipeline uses.
const (
	keyIdentity   = "libris_uri"
	keyInstanceOf = "instance_of"
	keyNameString = "author_name_string"
	keyHasRole    = "object_has_role"
)

var (
	// ErrNotApplicable is returned for records the pipeline does not handle,
	// such as an authority record that does not describe a person.
	ErrNotApplicable = errors.New("record not applicable")

	// ErrNoURI is returned for records without a stable identifier.
	ErrNoURI = errors.New("record has no URI")
)

// Env is the run-wide state shared by every record: mapping tables,
// identifier indices and the boundary collaborators.
type Env struct {
	Tables  mapping.Tables
	Indices mapping.Indices

	// Names resolves given and family names. Nil leaves names unresolved.
	Names *names.Resolver

	// Dedupe drops dates the matched entity already has. Nil skips the check.
	Dedupe *dedupe.Filter

	Reference           types.ReferenceConfig
	LabelLanguages      []string
	DescriptionLanguage string

	Log logger.Logger
	Now func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) log() logger.Logger {
	if e.Log == nil {
		return logger.NewNop()
	}
	return e.Log
}

func (e *Env) properties() mapping.Table {
	return e.Tables.Get(mapping.Properties)
}

// reference builds the provenance of one record: stated in the catalog,
// published on its modification date, at its catalog URL, retrieved now.
func (e *Env) reference(rec *record.SourceRecord, uri string) *types.Reference {
	statedIn := e.Reference.StatedIn
	if statedIn == "" {
		statedIn, _ = e.properties().Lookup("libris")
	}
	tmpl := e.Reference.URLTemplate
	if tmpl == "" {
		tmpl = DefaultURLTemplate
	}
	var published *types.Date
	if d, ok := extract.Modified(rec); ok {
		published = &d
	}
	return claims.NewReference(statedIn, published, fmt.Sprintf(tmpl, uri), e.now())
}

// Result is a finalized item together with its problem report.
type Result struct {
	URI       string
	SourceURL string
	Match     types.MatchResult
	Item      *types.CanonicalItem
	Report    *report.Collector
}

// State is what a step works on.
type State struct {
	Env     *Env
	Record  *record.SourceRecord
	URI     string
	Item    *types.CanonicalItem
	Builder *claims.Builder
	Report  *report.Collector
}

// problem records a field that could not be used. key is the property key
// the value was meant for, or "".
func (s *State) problem(field string, raw any, key string) {
	var target string
	if key != "" {
		target, _ = s.Env.properties().Lookup(key)
	}
	s.Report.Record(field, raw, target)
}

// check records err, if any, as a problem with field.
func (s *State) check(field string, raw any, key string, err error) {
	if err != nil {
		s.Env.log().Debug("field not built",
			logger.String("uri", s.URI), logger.String("field", field), logger.Error(err))
		s.problem(field, raw, key)
	}
}

// entity looks label up in a mapping table and adds it as an entity
// statement, or records it as a problem when the table has no entry.
func (s *State) entity(table, field, key, label string) {
	id, ok := s.Env.Tables.Get(table).Lookup(label)
	if !ok {
		s.problem(field, label, key)
		return
	}
	s.check(field, label, key, s.Builder.AddEntity(s.Item, key, id))
}

// instanceOf adds the class named by a properties-table key.
func (s *State) instanceOf(classKey string) {
	id, ok := s.Env.properties().Lookup(classKey)
	if !ok {
		s.problem(keyInstanceOf, classKey, keyInstanceOf)
		return
	}
	s.check(keyInstanceOf, id, keyInstanceOf, s.Builder.AddEntity(s.Item, keyInstanceOf, id))
}

// Step builds one group of fields. A returned error is a boundary failure
// and abandons the record; unusable values are recorded as problems.
type Step func(ctx context.Context, s *State) error

// Pipeline resolves records of one kind.
type Pipeline struct {
	Kind   string
	Accept func(*record.SourceRecord) bool
	Keys   func(*record.SourceRecord) []types.MatchKey
	Steps  []Step
}

// Run takes rec through the whole lifecycle. Errors mean the record was
// abandoned; everything else degrades to fewer statements, problems in the
// report, or an item that may not be uploaded.
func (p *Pipeline) Run(ctx context.Context, env *Env, rec *record.SourceRecord) (*Result, error) {
	if p.Accept != nil && !p.Accept(rec) {
		return nil, fmt.Errorf("%w: not a %s", ErrNotApplicable, p.Kind)
	}
	uri, ok := extract.URI(rec)
	if !ok {
		return nil, ErrNoURI
	}

	item := types.NewCanonicalItem()
	res := &Result{
		URI:       uri,
		SourceURL: extract.SourceURL(rec),
		Item:      item,
		Report:    report.NewCollector(item, extract.SourceURL(rec)),
	}
	log := env.log().With(logger.String("uri", uri), logger.String("kind", p.Kind))

	res.Match = match.Match(p.Keys(rec), env.Indices)
	switch res.Match.Outcome {
	case types.OutcomeMatched:
		item.Associate(res.Match.KBID)
	case types.OutcomeAmbiguous:
		item.Disqualify(fmt.Sprintf("ambiguous %s %s: %s",
			res.Match.Key.Kind, res.Match.Key.Value, strings.Join(res.Match.Candidates, ", ")))
		target, _ := env.properties().Lookup(mapping.IndexProperties[res.Match.Key.Kind])
		res.Report.Record("match", res.Match.Candidates, target)
		log.Warn("ambiguous match", logger.String("key", res.Match.Key.Value),
			logger.Strings("candidates", res.Match.Candidates))
	}
	if err := item.Advance(types.StageMatched); err != nil {
		return nil, err
	}

	s := &State{
		Env:     env,
		Record:  rec,
		URI:     uri,
		Item:    item,
		Builder: claims.NewBuilder(env.properties(), env.reference(rec, uri), extract.WorkingLanguage(rec)),
		Report:  res.Report,
	}
	if err := s.Builder.Identity(item, keyIdentity, uri); err != nil {
		return nil, fmt.Errorf("identity statement: %w", err)
	}
	for _, step := range p.Steps {
		if err := step(ctx, s); err != nil {
			return nil, err
		}
	}
	if err := item.Advance(types.StageBuilt); err != nil {
		return nil, err
	}

	if env.Dedupe != nil {
		dropped, err := env.Dedupe.Apply(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("checking existing dates: %w", err)
		}
		if dropped > 0 {
			log.Info("dropped redundant dates", logger.Int("dropped", dropped))
		}
	}
	if err := item.Advance(types.StageDeduplicated); err != nil {
		return nil, err
	}
	if err := item.Advance(types.StageFinalized); err != nil {
		return nil, err
	}
	return res, nil
}
