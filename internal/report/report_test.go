// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

const src = "https://libris.kb.se/abc123"

func TestRecordSnapshotsKBID(t *testing.T) {
	item := types.NewCanonicalItem()
	item.Associate("Q7")
	c := NewCollector(item, src)
	c.Record("isbn", "978-0-06-231609-8", "P212")

	r := c.Report()
	assert.Equal(t, "Q7", r.KBID)
	assert.Equal(t, src, r.SourceURL)
	assert.Equal(t, types.Problem{Value: "978-0-06-231609-8", TargetProperty: "P212"}, r.Problems["isbn"])

	c.Backfill("Q99")
	assert.Equal(t, "Q7", c.Report().KBID, "resolved id is not overwritten")
}

func TestBackfillPlaceholder(t *testing.T) {
	c := NewCollector(types.NewCanonicalItem(), src)
	c.Record("lifespan", "verksam 1800-talet", "")
	assert.Equal(t, "", c.Report().KBID)

	c.Backfill("Q123")
	assert.Equal(t, "Q123", c.Report().KBID)
}

func TestSnapshotTakenAtFirstRecord(t *testing.T) {
	item := types.NewCanonicalItem()
	c := NewCollector(item, src)
	c.Record("title", nil, "P1476")
	item.Associate("Q5")
	c.Record("pages", "okänt", "P1104")
	assert.Equal(t, "", c.Report().KBID)
}

func TestRepeatedFieldBecomesList(t *testing.T) {
	c := NewCollector(types.NewCanonicalItem(), src)
	c.Record("isbn", "1", "P212")
	c.Record("isbn", "2", "")
	c.Record("isbn", "3", "")
	assert.Equal(t, types.Problem{Value: []any{"1", "2", "3"}, TargetProperty: "P212"}, c.Report().Problems["isbn"])
	assert.Equal(t, 1, c.Len())
}

func TestRepeatedListValuesStayNested(t *testing.T) {
	c := NewCollector(types.NewCanonicalItem(), src)
	c.Record("match", []any{"Q1", "Q2"}, "P212")
	c.Record("match", "Q3", "")
	c.Record("match", []any{"Q4"}, "")

	want := []any{[]any{"Q1", "Q2"}, "Q3", []any{"Q4"}}
	assert.Equal(t, types.Problem{Value: want, TargetProperty: "P212"}, c.Report().Problems["match"])
}

func TestBatchKeepsOnlyNonEmpty(t *testing.T) {
	var b Batch
	empty := NewCollector(types.NewCanonicalItem(), "https://libris.kb.se/empty")
	full := NewCollector(types.NewCanonicalItem(), src)
	full.Record("lifespan", "okänd", "")
	b.Add(empty)
	b.Add(full)
	b.Add(nil)
	require.Equal(t, 1, b.Len())

	full.Backfill("Q42")

	var buf bytes.Buffer
	require.NoError(t, b.WriteJSON(&buf))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Q42", got[0]["kb_id"])
	assert.Equal(t, src, got[0]["source_url"])
	problems := got[0]["problems"].(map[string]any)
	assert.Equal(t, map[string]any{"value": "okänd"}, problems["lifespan"])
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "problems.json")

	var b Batch
	require.NoError(t, b.WriteFile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty batch writes nothing")

	c := NewCollector(types.NewCanonicalItem(), src)
	c.Record("title", nil, "P1476")
	b.Add(c)
	require.NoError(t, b.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source_url": "https://libris.kb.se/abc123"`)
}
