// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Vesihiisi/Biblioteksdata/internal/libris"
	"github.com/Vesihiisi/Biblioteksdata/internal/resolve"
	"github.com/Vesihiisi/Biblioteksdata/internal/secrets"
	"github.com/Vesihiisi/Biblioteksdata/internal/store"
	"github.com/Vesihiisi/Biblioteksdata/internal/upload"
	"github.com/Vesihiisi/Biblioteksdata/internal/wikibase"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

const (
	productName       = "biblioteksdata"
	defaultMappingDir = "mappings"
	defaultReportPath = "reports/problems.json"
	defaultTimeout    = 60 * time.Second
	defaultDelay      = 1 * time.Second
)

func setDefaults() {
	viper.SetDefault("mapping.dir", defaultMappingDir)
	viper.SetDefault("wikibase.sparql_endpoint", wikibase.DefaultSPARQLEndpoint)
	viper.SetDefault("wikibase.api_endpoint", wikibase.DefaultAPIEndpoint)
	viper.SetDefault("wikibase.timeout", defaultTimeout)
	viper.SetDefault("libris.base_url", libris.DefaultBaseURL)
	viper.SetDefault("libris.legacy_base_url", libris.DefaultLegacyBaseURL)
	viper.SetDefault("libris.timeout", defaultTimeout)
	viper.SetDefault("upload.mode", string(types.UploadNone))
	viper.SetDefault("upload.edit_summary", upload.DefaultLiveSummary)
	viper.SetDefault("upload.sandbox_item", upload.DefaultSandboxItem)
	viper.SetDefault("reference.url_template", resolve.DefaultURLTemplate)
	viper.SetDefault("store.path", store.DefaultPath)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("label_languages", []string{"sv", "en"})
	viper.SetDefault("description_language", resolve.DefaultDescriptionLanguage)
	viper.SetDefault("report_path", defaultReportPath)
}

// loadConfig reads the import configuration from the config file and
// environment, then applies the flags cmd defines and the user set.
func loadConfig(cmd *cobra.Command) (types.ImportConfig, error) {
	setDefaults()

	var cfg types.ImportConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("upload") {
		mode, _ := flags.GetString("upload")
		cfg.Upload.Mode = types.UploadMode(mode)
	}
	if flags.Changed("offline") {
		cfg.Mapping.Offline, _ = flags.GetBool("offline")
	}
	if flags.Changed("report") {
		cfg.ReportPath, _ = flags.GetString("report")
	}

	switch cfg.Upload.Mode {
	case types.UploadNone, types.UploadSandbox, types.UploadLive:
	default:
		return cfg, fmt.Errorf("unsupported upload mode %q: use none, sandbox or live", cfg.Upload.Mode)
	}

	agent := secrets.UserAgent(productName+"/"+version, loadedSecrets)
	if cfg.Wikibase.UserAgent == "" {
		cfg.Wikibase.UserAgent = agent
	}
	if cfg.Libris.UserAgent == "" {
		cfg.Libris.UserAgent = agent
	}
	cfg.Upload.EditSummary = secrets.EditSummary(cfg.Upload.EditSummary, loadedSecrets)
	return cfg, nil
}
