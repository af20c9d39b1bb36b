// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biblioteksdata CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Vesihiisi/Biblioteksdata/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds the contact email and bot user loaded from .secrets/
// at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the biblioteksdata CLI.
var rootCmd = &cobra.Command{
	Use:   "biblioteksdata",
	Short: "Import Libris catalog records into Wikidata",
	Long: `biblioteksdata reads bibliographic and authority records from the Libris
catalog, matches them against Wikidata by their identifiers, and builds
referenced statements for upload.

Editions and authorities are separate subcommands. Records that cannot be
matched unambiguously are never uploaded; every field that could not be
used ends up in a problem report for manual review.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./biblioteksdata.yaml or ~/.config/biblioteksdata/config.yaml)")
	rootCmd.PersistentFlags().String("mappings", "", "directory holding the mapping tables (default mappings)")
	rootCmd.PersistentFlags().String("db", "", "SQLite store path (default data/biblioteksdata.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("mapping.dir", rootCmd.PersistentFlags().Lookup("mappings"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("biblioteksdata")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "biblioteksdata"))
		}
	}

	viper.SetEnvPrefix("BIBLIOTEKSDATA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
