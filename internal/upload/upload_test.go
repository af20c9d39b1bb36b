// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upload

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vesihiisi/Biblioteksdata/internal/claims"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/resolve"
	"github.com/Vesihiisi/Biblioteksdata/internal/store"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "upload.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func properties() mapping.Table {
	return mapping.NewTable(map[string]string{
		"libris_uri":      "P5587",
		"isbn_13":         "P212",
		"applies_to_part": "P518",
		"stated_in":       "P248",
		"published":       "P577",
		"reference_url":   "P854",
		"retrieved":       "P813",
	})
}

func finalized(t *testing.T, uri, kbID string) *resolve.Result {
	t.Helper()
	item := types.NewCanonicalItem()
	item.Associate(kbID)
	item.AddLabel("sv", "Röda rummet")
	item.AddLabel("sv", "ignored duplicate")
	item.AddStatement(types.Statement{Property: "libris_uri", Value: types.StringValue(uri)})
	ref := &types.Reference{
		StatedIn:  "Q1798125",
		URL:       "https://libris.kb.se/katalogisering/" + uri,
		Retrieved: types.Date{Year: 2026, Month: 10, Day: 18, Precision: types.PrecisionDay},
	}
	item.AddStatement(types.Statement{
		Property:   "isbn_13",
		Value:      types.StringValue("9780062316097"),
		Qualifiers: []types.Qualifier{{Property: "applies_to_part", Value: types.EntityValue("Q193955")}},
		Reference:  ref,
	})
	require.NoError(t, item.Advance(types.StageFinalized))
	return &resolve.Result{URI: uri, Item: item}
}

func TestSandboxWritesToSandboxItem(t *testing.T) {
	s := testStore(t)
	u := New(types.UploadConfig{Mode: types.UploadSandbox, EditSummary: "ignored"}, properties(), s, nil)
	ctx := context.Background()

	action, id, err := u.Upload(ctx, finalized(t, "abc123", ""))
	require.NoError(t, err)
	assert.Equal(t, resolve.ActionUpdated, action)
	assert.Equal(t, DefaultSandboxItem, id)

	edits, err := s.Edits(ctx, u.RunID())
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, DefaultSandboxItem, edits[0].Target)
	assert.False(t, edits[0].Created)
	assert.Equal(t, 2, edits[0].Statements)
	assert.Contains(t, edits[0].Payload, `"summary":"test"`)
}

func TestLiveUpdatesMatchedAndCreatesOnce(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	cfg := types.UploadConfig{Mode: types.UploadLive}

	u := New(cfg, properties(), s, nil)
	action, id, err := u.Upload(ctx, finalized(t, "matched", "Q42"))
	require.NoError(t, err)
	assert.Equal(t, resolve.ActionUpdated, action)
	assert.Equal(t, "Q42", id)

	action, created, err := u.Upload(ctx, finalized(t, "fresh", ""))
	require.NoError(t, err)
	assert.Equal(t, resolve.ActionCreated, action)
	assert.NotEmpty(t, created)
	assert.False(t, claims.IsEntityID(created), "placeholder ids are not item ids")

	// A later run reuses the entity created for the same record.
	again := New(cfg, properties(), s, nil)
	assert.NotEqual(t, u.RunID(), again.RunID())
	action, id, err = again.Upload(ctx, finalized(t, "fresh", ""))
	require.NoError(t, err)
	assert.Equal(t, resolve.ActionUpdated, action)
	assert.Equal(t, created, id)

	all, err := s.Edits(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Contains(t, all[0].Payload, `"summary":"#WMSE #LibraryData_KB"`)
}

func TestUploadRefusals(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, _, err := New(types.UploadConfig{Mode: types.UploadNone}, properties(), s, nil).Upload(ctx, finalized(t, "a", ""))
	assert.ErrorIs(t, err, ErrDisabled)

	u := New(types.UploadConfig{Mode: types.UploadLive}, properties(), s, nil)

	blocked := finalized(t, "b", "")
	blocked.Item.Disqualify("ambiguous")
	action, _, err := u.Upload(ctx, blocked)
	require.NoError(t, err)
	assert.Equal(t, resolve.ActionSkipped, action)

	res := finalized(t, "c", "Q1")
	_, _, err = u.Upload(ctx, res)
	require.NoError(t, err)
	_, _, err = u.Upload(ctx, res)
	assert.ErrorIs(t, err, types.ErrAlreadyConsumed)

	edits, err := s.Edits(ctx, u.RunID())
	require.NoError(t, err)
	assert.Len(t, edits, 1)
}

func TestPayload(t *testing.T) {
	res := finalized(t, "abc123", "")
	data, err := Payload(res.Item, properties(), "test")
	require.NoError(t, err)

	var doc struct {
		Summary string            `json:"summary"`
		Labels  map[string]string `json:"labels"`
		Claims  map[string][]struct {
			Value      types.Value              `json:"value"`
			Qualifiers map[string][]types.Value `json:"qualifiers"`
			References []map[string]types.Value `json:"references"`
		} `json:"claims"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "test", doc.Summary)
	assert.Equal(t, map[string]string{"sv": "Röda rummet"}, doc.Labels)

	require.Len(t, doc.Claims["P5587"], 1)
	assert.Empty(t, doc.Claims["P5587"][0].References)

	isbn := doc.Claims["P212"]
	require.Len(t, isbn, 1)
	assert.Equal(t, []types.Value{types.EntityValue("Q193955")}, isbn[0].Qualifiers["P518"])
	require.Len(t, isbn[0].References, 1)
	ref := isbn[0].References[0]
	assert.Equal(t, types.EntityValue("Q1798125"), ref["P248"])
	assert.Equal(t, types.StringValue("https://libris.kb.se/katalogisering/abc123"), ref["P854"])
	assert.Contains(t, ref, "P813")
	assert.NotContains(t, ref, "P577")
}

func TestPayloadUnknownProperty(t *testing.T) {
	item := types.NewCanonicalItem()
	item.AddStatement(types.Statement{Property: "nonexistent", Value: types.StringValue("x")})
	_, err := Payload(item, properties(), "")
	assert.ErrorIs(t, err, claims.ErrUnknownProperty)
}
