// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package names resolves given and family names to knowledge base name
// items, remembering every answer for the rest of the run.
package names

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Kind separates given names from family names.
type Kind string

const (
	Given  Kind = "given"
	Family Kind = "family"
)

// Cache stores resolved names. An empty id records that the name has no
// unique item, so it is not looked up again.
type Cache interface {
	GetName(ctx context.Context, kind Kind, name string) (id string, found bool, err error)
	PutName(ctx context.Context, kind Kind, name, id string) error
}

// LookupFunc asks the knowledge base for the single name item whose native
// label is name. It returns "" when there is none or more than one.
type LookupFunc func(ctx context.Context, kind Kind, name string) (string, error)

// Resolver answers from the cache before calling lookup.
type Resolver struct {
	cache  Cache
	lookup LookupFunc
}

// NewResolver returns a resolver over cache and lookup.
func NewResolver(cache Cache, lookup LookupFunc) *Resolver {
	return &Resolver{cache: cache, lookup: lookup}
}

// Resolve returns the name item for name. ok is false when no unique item
// exists. The answer, including a miss, is cached before Resolve returns.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, nil
	}
	id, found, err := r.cache.GetName(ctx, kind, name)
	if err != nil {
		return "", false, fmt.Errorf("reading name cache: %w", err)
	}
	if found {
		return id, id != "", nil
	}
	id, err = r.lookup(ctx, kind, name)
	if err != nil {
		return "", false, fmt.Errorf("looking up %s name %q: %w", kind, name, err)
	}
	if err := r.cache.PutName(ctx, kind, name, id); err != nil {
		return "", false, fmt.Errorf("writing name cache: %w", err)
	}
	return id, id != "", nil
}

// MemoryCache is a Cache held in memory.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[Kind]map[string]string
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[Kind]map[string]string)}
}

// GetName implements Cache.
func (m *MemoryCache) GetName(_ context.Context, kind Kind, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.entries[kind][name]
	return id, ok, nil
}

// PutName implements Cache.
func (m *MemoryCache) PutName(_ context.Context, kind Kind, name, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[kind] == nil {
		m.entries[kind] = make(map[string]string)
	}
	m.entries[kind][name] = id
	return nil
}
