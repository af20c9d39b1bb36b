// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upload hands finalized items to the knowledge base and journals
// every write.
//
// In sandbox mode every item is written over one sandbox entity. In live
// mode matched items update their entity and unmatched items create one.
// Creating entities needs an authenticated session, which this tool does not
// hold: a created entity is a journal placeholder id that a later rerun
// reuses for the same record.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Vesihiisi/Biblioteksdata/internal/claims"
	"github.com/Vesihiisi/Biblioteksdata/internal/logger"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/resolve"
	"github.com/Vesihiisi/Biblioteksdata/internal/store"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Defaults for the two upload modes.
const (
	DefaultSandboxItem    = "Q4115189"
	DefaultSandboxSummary = "test"
	DefaultLiveSummary    = "#WMSE #LibraryData_KB"
)

// Reference property keys.
var referenceKeys = struct{ statedIn, published, url, retrieved string }{
	"stated_in", "published", "reference_url", "retrieved",
}

// ErrDisabled is returned by an uploader in mode "none".
var ErrDisabled = errors.New("upload disabled")

// Journal records edits and remembers created entities.
type Journal interface {
	RecordEdit(ctx context.Context, e store.Edit) (store.Edit, error)
	CreatedFor(ctx context.Context, sourceURI string, mode types.UploadMode) (string, bool, error)
}

// Uploader writes items according to its mode.
type Uploader struct {
	cfg        types.UploadConfig
	properties mapping.Table
	journal    Journal
	runID      string
	log        logger.Logger
}

// New returns an uploader for one run. Property keys are translated to
// knowledge base ids through properties.
func New(cfg types.UploadConfig, properties mapping.Table, journal Journal, log logger.Logger) *Uploader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Uploader{
		cfg:        cfg,
		properties: properties,
		journal:    journal,
		runID:      uuid.NewString(),
		log:        log,
	}
}

// RunID identifies this run's journal rows.
func (u *Uploader) RunID() string { return u.runID }

// Summary returns the edit summary of the uploader's mode.
func (u *Uploader) Summary() string {
	switch u.cfg.Mode {
	case types.UploadSandbox:
		return DefaultSandboxSummary
	case types.UploadLive:
		if u.cfg.EditSummary != "" {
			return u.cfg.EditSummary
		}
		return DefaultLiveSummary
	}
	return ""
}

// Upload writes one finalized item and returns what was done and the
// entity id written to. The item is consumed.
func (u *Uploader) Upload(ctx context.Context, res *resolve.Result) (resolve.Action, string, error) {
	if u.cfg.Mode == types.UploadNone || u.cfg.Mode == "" {
		return resolve.ActionSkipped, "", ErrDisabled
	}
	if !res.Item.Upload() {
		return resolve.ActionSkipped, "", nil
	}

	target, created, err := u.target(ctx, res)
	if err != nil {
		return "", "", err
	}
	payload, err := Payload(res.Item, u.properties, u.Summary())
	if err != nil {
		return "", "", err
	}
	if err := res.Item.Consume(); err != nil {
		return "", "", fmt.Errorf("handing off %s: %w", res.URI, err)
	}

	e, err := u.journal.RecordEdit(ctx, store.Edit{
		RunID:      u.runID,
		Mode:       u.cfg.Mode,
		Target:     target,
		SourceURI:  res.URI,
		Created:    created,
		Statements: len(res.Item.Statements),
		Payload:    string(payload),
	})
	if err != nil {
		return "", "", err
	}
	u.log.Info("item written",
		logger.String("uri", res.URI),
		logger.String("target", target),
		logger.String("mode", string(u.cfg.Mode)),
		logger.Bool("created", created),
		logger.String("edit", e.ID),
	)

	if created {
		return resolve.ActionCreated, target, nil
	}
	return resolve.ActionUpdated, target, nil
}

// target picks the entity to write to and whether writing creates it.
func (u *Uploader) target(ctx context.Context, res *resolve.Result) (string, bool, error) {
	if u.cfg.Mode == types.UploadSandbox {
		if u.cfg.SandboxItem != "" {
			return u.cfg.SandboxItem, false, nil
		}
		return DefaultSandboxItem, false, nil
	}
	if id, ok := res.Item.KBID(); ok {
		return id, false, nil
	}
	id, ok, err := u.journal.CreatedFor(ctx, res.URI, u.cfg.Mode)
	if err != nil {
		return "", false, err
	}
	if ok {
		return id, false, nil
	}
	return uuid.NewString(), true, nil
}

// Payload renders item as an entity document keyed by knowledge base
// property ids.
func Payload(item *types.CanonicalItem, properties mapping.Table, summary string) ([]byte, error) {
	doc := entityDoc{
		Summary:      summary,
		Labels:       languageMap(item.Labels),
		Descriptions: languageMap(item.Descriptions),
		Claims:       make(map[string][]claimDoc),
	}
	pid := func(key string) (string, error) {
		id, ok := properties.Lookup(key)
		if !ok {
			return "", fmt.Errorf("%w: %s", claims.ErrUnknownProperty, key)
		}
		return id, nil
	}

	for _, s := range item.Statements {
		p, err := pid(s.Property)
		if err != nil {
			return nil, err
		}
		c := claimDoc{Value: s.Value}
		for _, q := range s.Qualifiers {
			qp, err := pid(q.Property)
			if err != nil {
				return nil, err
			}
			if c.Qualifiers == nil {
				c.Qualifiers = make(map[string][]types.Value)
			}
			c.Qualifiers[qp] = append(c.Qualifiers[qp], q.Value)
		}
		if s.Reference != nil {
			ref, err := referenceDoc(s.Reference, pid)
			if err != nil {
				return nil, err
			}
			c.References = []map[string]types.Value{ref}
		}
		doc.Claims[p] = append(doc.Claims[p], c)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return data, nil
}

type entityDoc struct {
	Summary      string                `json:"summary,omitempty"`
	Labels       map[string]string     `json:"labels,omitempty"`
	Descriptions map[string]string     `json:"descriptions,omitempty"`
	Claims       map[string][]claimDoc `json:"claims"`
}

type claimDoc struct {
	Value      types.Value              `json:"value"`
	Qualifiers map[string][]types.Value `json:"qualifiers,omitempty"`
	References []map[string]types.Value `json:"references,omitempty"`
}

// languageMap keeps the first text per language.
func languageMap(labels []types.Label) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	out := make(map[string]string, len(labels))
	for _, l := range labels {
		if _, ok := out[l.Lang]; !ok {
			out[l.Lang] = l.Text
		}
	}
	return out
}

func referenceDoc(ref *types.Reference, pid func(string) (string, error)) (map[string]types.Value, error) {
	out := make(map[string]types.Value)
	add := func(key string, v types.Value) error {
		p, err := pid(key)
		if err != nil {
			return err
		}
		out[p] = v
		return nil
	}
	if ref.StatedIn != "" {
		if err := add(referenceKeys.statedIn, types.EntityValue(ref.StatedIn)); err != nil {
			return nil, err
		}
	}
	if ref.PublicationDate != nil {
		if err := add(referenceKeys.published, types.TimeValue(*ref.PublicationDate)); err != nil {
			return nil, err
		}
	}
	if ref.URL != "" {
		if err := add(referenceKeys.url, types.StringValue(ref.URL)); err != nil {
			return nil, err
		}
	}
	if err := add(referenceKeys.retrieved, types.TimeValue(ref.Retrieved)); err != nil {
		return nil, err
	}
	return out, nil
}
