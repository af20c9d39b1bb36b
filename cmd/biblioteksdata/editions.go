// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var editionsCmd = &cobra.Command{
	Use:   "editions [identifiers...]",
	Short: "Import bibliographic records of book editions",
	Long: `Editions reads edition records from a dump directory (--dir) or fetches
them from the catalog by URI or legacy id, matches each against the URI,
legacy id and ISBN indices, and builds its statements.

Without --upload the run is dry: items are built and reported but nothing is
written. Use --dump to review the built items as YAML.`,
	RunE: runEditions,
}

func runEditions(cmd *cobra.Command, args []string) error {
	return runImport(cmd, editionImport, recordsFrom(readSourceFlags(cmd, args)))
}

func init() {
	addSourceFlags(editionsCmd)
	addRunFlags(editionsCmd)
	rootCmd.AddCommand(editionsCmd)
}
