// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/store"
	"github.com/Vesihiisi/Biblioteksdata/internal/wikibase"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

var indicesCmd = &cobra.Command{
	Use:   "indices",
	Short: "Fetch and inspect identifier index snapshots",
	Long: `Indices maintains the snapshots of knowledge base identifier indices kept
in the local store. Import runs with --offline match against these snapshots
instead of querying the knowledge base.`,
}

var indicesFetchCmd = &cobra.Command{
	Use:   "fetch [edition|authority]...",
	Short: "Query the knowledge base and save index snapshots",
	RunE:  runIndicesFetch,
}

var indicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saved index snapshots",
	RunE:  runIndicesList,
}

func runIndicesFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"edition", "authority"}
	}
	var kinds []types.MatchKind
	seen := make(map[types.MatchKind]bool)
	for _, a := range args {
		var group []types.MatchKind
		switch strings.ToLower(a) {
		case "edition", "editions":
			group = wikibase.EditionIndices
		case "authority", "authorities":
			group = wikibase.AuthorityIndices
		default:
			return fmt.Errorf("unknown index group %q: use edition or authority", a)
		}
		for _, k := range group {
			if !seen[k] {
				seen[k] = true
				kinds = append(kinds, k)
			}
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	properties, err := mapping.LoadTable(cfg.Mapping.Dir, mapping.Properties)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	loader := &wikibase.IndexLoader{
		Source:     wikibase.NewClient(cfg.Wikibase, wikibase.DefaultNameClasses),
		Snapshots:  st,
		Properties: properties,
	}
	fmt.Println("Fetching identifier indices:")
	_, err = loader.Load(context.Background(), kinds, os.Stdout)
	return err
}

func runIndicesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	snaps, err := st.Snapshots(context.Background())
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No snapshots saved.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-8s  %-8s  %s\n", "Index", "Property", "Rows", "Fetched")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
	for _, s := range snaps {
		fmt.Fprintf(os.Stdout, "%-16s  %-8s  %-8d  %s\n",
			s.Kind, s.Property, s.Rows, s.FetchedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func init() {
	indicesCmd.AddCommand(indicesFetchCmd)
	indicesCmd.AddCommand(indicesListCmd)
	rootCmd.AddCommand(indicesCmd)
}
