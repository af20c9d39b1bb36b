// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package libris

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Vesihiisi/Biblioteksdata/internal/extract"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
)

// Filter narrows a dump directory scan.
type Filter struct {
	// Limit stops after this many files have been considered; 0 means all.
	Limit int

	// URI keeps only the record with this URI.
	URI string

	// LegacyIDs keeps only records whose legacy id is in the set.
	LegacyIDs map[string]bool
}

// Entry is one file from a dump directory. Err is set when the file could
// not be read or parsed; the scan continues past it.
type Entry struct {
	Path   string
	Record *record.SourceRecord
	Err    error
}

// Files lists the regular files of dir in name order, skipping dotfiles.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dump directory %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ReadFile parses one record file.
func ReadFile(path string) (*record.SourceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rec, err := record.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rec, nil
}

// Scan calls fn for each record of dir that passes f, in name order. A URI
// filter stops the scan at the first matching record. Scan stops early when
// fn returns an error or ctx is cancelled.
func Scan(ctx context.Context, dir string, f Filter, fn func(Entry) error) error {
	files, err := Files(dir)
	if err != nil {
		return err
	}
	if f.Limit > 0 && len(files) > f.Limit {
		files = files[:f.Limit]
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := ReadFile(path)
		if err != nil {
			if f.URI != "" || f.LegacyIDs != nil {
				// A broken file cannot be matched against the filter.
				continue
			}
			if err := fn(Entry{Path: path, Err: err}); err != nil {
				return err
			}
			continue
		}
		if !f.keep(rec) {
			continue
		}
		if err := fn(Entry{Path: path, Record: rec}); err != nil {
			return err
		}
		if f.URI != "" {
			return nil
		}
	}
	return nil
}

func (f Filter) keep(rec *record.SourceRecord) bool {
	if f.URI != "" {
		uri, _ := rec.URI()
		if uri != f.URI {
			return false
		}
	}
	if f.LegacyIDs != nil {
		id, ok := extract.LegacyID(rec)
		if !ok || !f.LegacyIDs[id] {
			return false
		}
	}
	return true
}

// ReadList reads identifiers one per line, ignoring blank lines and lines
// starting with '#'.
func ReadList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening list %s: %w", path, err)
	}
	defer file.Close()

	var out []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading list %s: %w", path, err)
	}
	return out, nil
}

// Set turns a list into a lookup set.
func Set(list []string) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, s := range list {
		out[s] = true
	}
	return out
}
