// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLookup struct {
	answers map[string]string
	calls   int
	err     error
}

func (c *countingLookup) lookup(_ context.Context, kind Kind, name string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.answers[string(kind)+":"+name], nil
}

func TestResolveCachesHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	l := &countingLookup{answers: map[string]string{"given:Kerstin": "Q17504322"}}
	r := NewResolver(NewMemoryCache(), l.lookup)

	for i := 0; i < 3; i++ {
		id, ok, err := r.Resolve(ctx, Given, "Kerstin")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Q17504322", id)
	}
	for i := 0; i < 2; i++ {
		_, ok, err := r.Resolve(ctx, Family, "Xyzzy")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 2, l.calls, "one lookup per distinct name")
}

func TestResolveKindsAreSeparate(t *testing.T) {
	ctx := context.Background()
	l := &countingLookup{answers: map[string]string{"given:Ekman": "", "family:Ekman": "Q1"}}
	r := NewResolver(NewMemoryCache(), l.lookup)

	_, ok, err := r.Resolve(ctx, Given, "Ekman")
	require.NoError(t, err)
	assert.False(t, ok)

	id, ok, err := r.Resolve(ctx, Family, "Ekman")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Q1", id)
}

func TestResolveLookupFailureNotCached(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	l := &countingLookup{err: errors.New("timeout")}
	r := NewResolver(cache, l.lookup)

	_, _, err := r.Resolve(ctx, Given, "Anna")
	require.Error(t, err)

	_, found, err := cache.GetName(ctx, Given, "Anna")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveBlankName(t *testing.T) {
	l := &countingLookup{}
	r := NewResolver(NewMemoryCache(), l.lookup)
	_, ok, err := r.Resolve(context.Background(), Given, "  ")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, l.calls)
}
