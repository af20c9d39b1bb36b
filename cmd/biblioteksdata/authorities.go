// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Vesihiisi/Biblioteksdata/internal/libris"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

var authoritiesCmd = &cobra.Command{
	Use:   "authorities [identifiers...]",
	Short: "Import authority records of people",
	Long: `Authorities reads person records from a dump directory, a single file
(--file), or the catalog, matches each against the URI and control number
indices, and builds its statements. Given and family names are linked to
name items; birth and death dates the matched entity already states are
left out. Records that do not describe a person are skipped.`,
	RunE: runAuthorities,
}

func runAuthorities(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		return runImport(cmd, authorityImport, fileSource(file))
	}
	return runImport(cmd, authorityImport, recordsFrom(readSourceFlags(cmd, args)))
}

// fileSource reads one record file.
func fileSource(path string) func(types.ImportConfig) (recordSource, error) {
	return func(types.ImportConfig) (recordSource, error) {
		return func(_ context.Context, emit emitFunc) error {
			rec, err := libris.ReadFile(path)
			return emit(path, rec, err)
		}, nil
	}
}

func init() {
	addSourceFlags(authoritiesCmd)
	addRunFlags(authoritiesCmd)
	authoritiesCmd.Flags().String("file", "", "a single JSON-LD authority record")
	rootCmd.AddCommand(authoritiesCmd)
}
