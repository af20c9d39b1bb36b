// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// ExportEntry is one finalized record in a YAML dump.
type ExportEntry struct {
	URI       string               `yaml:"uri"`
	SourceURL string               `yaml:"source_url"`
	Match     types.MatchResult    `yaml:"match"`
	Upload    bool                 `yaml:"upload"`
	Reason    string               `yaml:"reason,omitempty"`
	Item      *types.CanonicalItem `yaml:"item"`
}

// Export converts results into dump entries.
func Export(results []*Result) []ExportEntry {
	out := make([]ExportEntry, len(results))
	for i, r := range results {
		out[i] = ExportEntry{
			URI:       r.URI,
			SourceURL: r.SourceURL,
			Match:     r.Match,
			Upload:    r.Item.Upload(),
			Reason:    r.Item.DisqualifiedReason(),
			Item:      r.Item,
		}
	}
	return out
}

// WriteYAML writes results to path for review before upload.
func WriteYAML(path string, results []*Result) error {
	data, err := yaml.Marshal(Export(results))
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dump directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
