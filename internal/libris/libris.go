// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package libris fetches catalog records over HTTP, harvests them into a
// dump directory and reads them back with optional filters.
package libris

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vesihiisi/Biblioteksdata/internal/httputil"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Default catalog endpoints.
const (
	DefaultBaseURL       = "https://libris.kb.se/"
	DefaultLegacyBaseURL = "http://libris.kb.se/resource/bib/"
)

const accept = "application/ld+json, application/json"

// RecordURL returns the JSON-LD document URL of a record URI.
func RecordURL(base, uri string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/" + uri + "/data.jsonld"
}

// Client reads records from the catalog.
type Client struct {
	http       *httputil.Client
	baseURL    string
	legacyBase string
}

// NewClient returns a catalog client for cfg. Empty endpoints use the
// defaults.
func NewClient(cfg types.LibrisConfig) *Client {
	c := &Client{
		http:       httputil.NewClient(cfg.HTTPConfig),
		baseURL:    cfg.BaseURL,
		legacyBase: cfg.LegacyBaseURL,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.legacyBase == "" {
		c.legacyBase = DefaultLegacyBaseURL
	}
	return c
}

// FetchRaw downloads the document for a record URI or legacy id.
func (c *Client) FetchRaw(ctx context.Context, identifier string) ([]byte, error) {
	idType, id := Classify(identifier)
	var u string
	switch idType {
	case TypeURI:
		u = RecordURL(c.baseURL, id)
	case TypeLegacy:
		u = strings.TrimSuffix(c.legacyBase, "/") + "/" + id
	default:
		return nil, fmt.Errorf("unrecognized identifier format: %q", identifier)
	}
	return c.http.Get(ctx, u, nil, accept)
}

// Fetch downloads and parses one record.
func (c *Client) Fetch(ctx context.Context, identifier string) (*record.SourceRecord, error) {
	data, err := c.FetchRaw(ctx, identifier)
	if err != nil {
		return nil, err
	}
	rec, err := record.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", identifier, err)
	}
	return rec, nil
}

// HarvestResult holds the outcome of a harvest run.
type HarvestResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of identifiers processed.
func (r HarvestResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// Harvest downloads records into dir as <uri>.jsonld, skipping records that
// are already present. It continues after individual failures and waits
// delay between consecutive downloads.
func (c *Client) Harvest(ctx context.Context, identifiers []string, dir string, delay time.Duration, w io.Writer) (HarvestResult, error) {
	var result HarvestResult
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("creating dump directory %s: %w", dir, err)
	}

	for i, id := range identifiers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		skipped, err := c.harvestOne(ctx, id, dir, w)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
		case skipped:
			result.Skipped++
		default:
			result.Downloaded++
		}
	}
	fmt.Fprintf(w, "\nHarvest summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result, nil
}

func (c *Client) harvestOne(ctx context.Context, identifier, dir string, w io.Writer) (bool, error) {
	idType, id := Classify(identifier)
	if idType == TypeURI {
		if _, err := os.Stat(filepath.Join(dir, id+".jsonld")); err == nil {
			fmt.Fprintf(w, "skipped: %s (already harvested)\n", id)
			return true, nil
		}
	}

	data, err := c.FetchRaw(ctx, identifier)
	if err != nil {
		return false, err
	}
	rec, err := record.Parse(data)
	if err != nil {
		return false, fmt.Errorf("parsing: %w", err)
	}
	uri, ok := rec.URI()
	if !ok {
		return false, fmt.Errorf("record has no URI")
	}

	path := filepath.Join(dir, uri+".jsonld")
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "skipped: %s (already harvested)\n", uri)
		return true, nil
	}
	if err := writeAtomic(path, data); err != nil {
		return false, err
	}
	fmt.Fprintf(w, "harvested: %s (%s)\n", uri, idType)
	return false, nil
}

// writeAtomic writes data through a temporary file in the same directory.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".harvest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing record: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
