package types

import "time"

// HTTPConfig holds shared HTTP settings used by collaborators that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "biblioteksdata/0.1 (contact@example.org)").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 and 503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// MappingConfig locates the local mapping tables.
type MappingConfig struct {
	// Dir holds properties.json, countries.json, professions.json,
	// languages.json, places.json and publishers.json (or .yaml variants).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Offline reuses identifier indices snapshotted in the store instead of
	// querying the knowledge base.
	Offline bool `json:"offline" yaml:"offline" mapstructure:"offline"`
}

// WikibaseConfig points at the knowledge base endpoints.
type WikibaseConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// SPARQLEndpoint is the query service URL.
	SPARQLEndpoint string `json:"sparql_endpoint" yaml:"sparql_endpoint" mapstructure:"sparql_endpoint"`

	// APIEndpoint is the action API URL used for entity reads.
	APIEndpoint string `json:"api_endpoint" yaml:"api_endpoint" mapstructure:"api_endpoint"`
}

// LibrisConfig points at the source catalog.
type LibrisConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the catalog base for URI lookups (https://libris.kb.se/).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// LegacyBaseURL resolves legacy numeric ids (http://libris.kb.se/resource/bib/).
	LegacyBaseURL string `json:"legacy_base_url" yaml:"legacy_base_url" mapstructure:"legacy_base_url"`

	// DumpDir holds one JSON-LD record per file.
	DumpDir string `json:"dump_dir" yaml:"dump_dir" mapstructure:"dump_dir"`
}

// UploadMode selects where edits are written.
type UploadMode string

const (
	UploadNone    UploadMode = "none"
	UploadSandbox UploadMode = "sandbox"
	UploadLive    UploadMode = "live"
)

// UploadConfig holds settings for the uploader.
type UploadConfig struct {
	// Mode is none, sandbox or live.
	Mode UploadMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// EditSummary is attached to live edits.
	EditSummary string `json:"edit_summary" yaml:"edit_summary" mapstructure:"edit_summary"`

	// SandboxItem receives every edit in sandbox mode.
	SandboxItem string `json:"sandbox_item" yaml:"sandbox_item" mapstructure:"sandbox_item"`
}

// ReferenceConfig describes the provenance attached to statements.
type ReferenceConfig struct {
	// StatedIn is the knowledge base id of the source catalog.
	StatedIn string `json:"stated_in" yaml:"stated_in" mapstructure:"stated_in"`

	// URLTemplate formats the record URL from its URI; one %s verb.
	URLTemplate string `json:"url_template" yaml:"url_template" mapstructure:"url_template"`
}

// StoreConfig locates the SQLite store.
type StoreConfig struct {
	// Path is the database file (default data/biblioteksdata.db).
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level       string `json:"level" yaml:"level" mapstructure:"level"`
	Development bool   `json:"development" yaml:"development" mapstructure:"development"`
}

// ImportConfig groups everything an import run needs.
type ImportConfig struct {
	Mapping   MappingConfig   `json:"mapping" yaml:"mapping" mapstructure:"mapping"`
	Wikibase  WikibaseConfig  `json:"wikibase" yaml:"wikibase" mapstructure:"wikibase"`
	Libris    LibrisConfig    `json:"libris" yaml:"libris" mapstructure:"libris"`
	Upload    UploadConfig    `json:"upload" yaml:"upload" mapstructure:"upload"`
	Reference ReferenceConfig `json:"reference" yaml:"reference" mapstructure:"reference"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`

	// LabelLanguages lists the languages person labels are written in.
	LabelLanguages []string `json:"label_languages" yaml:"label_languages" mapstructure:"label_languages"`

	// DescriptionLanguage tags biographical notes used as descriptions.
	DescriptionLanguage string `json:"description_language" yaml:"description_language" mapstructure:"description_language"`

	// ReportPath is where the problem report array is written.
	ReportPath string `json:"report_path" yaml:"report_path" mapstructure:"report_path"`
}
