// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vesihiisi/Biblioteksdata/internal/httputil"
	"github.com/Vesihiisi/Biblioteksdata/internal/runeberg"
)

const defaultCatalog = "http://runeberg.org/katalog.html"

var runebergCmd = &cobra.Command{
	Use:   "runeberg",
	Short: "Extract legacy catalog ids from the Runeberg.org catalog",
	Long: `Runeberg parses the Runeberg.org catalog page, from a local file or the
web, and writes the legacy catalog ids its works link to. The output is a
list for editions --libris-list or harvest --libris-list.`,
	RunE: runRuneberg,
}

func init() {
	runebergCmd.Flags().String("catalog", defaultCatalog, "catalog file or URL")
	runebergCmd.Flags().String("out", "", "write the id list here instead of stdout")

	rootCmd.AddCommand(runebergCmd)
}

func runRuneberg(cmd *cobra.Command, args []string) error {
	catalog, _ := cmd.Flags().GetString("catalog")
	out, _ := cmd.Flags().GetString("out")

	var r io.Reader
	if strings.HasPrefix(catalog, "http://") || strings.HasPrefix(catalog, "https://") {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := httputil.NewClient(cfg.Libris.HTTPConfig).Get(context.Background(), catalog, nil, "text/html")
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	} else {
		f, err := os.Open(catalog)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	works, err := runeberg.Parse(r)
	if err != nil {
		return err
	}
	ids := runeberg.LegacyIDs(works)
	fmt.Fprintf(os.Stderr, "%d works, %d with a legacy id\n", len(works), len(ids))

	if out == "" {
		return runeberg.WriteList(os.Stdout, ids)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := runeberg.WriteList(f, ids); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
