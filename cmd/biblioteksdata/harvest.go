// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vesihiisi/Biblioteksdata/internal/libris"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [identifiers...]",
	Short: "Download catalog records into a dump directory",
	Long: `Harvest fetches records by URI or legacy id and stores each as
<uri>.jsonld in the dump directory, ready for editions --dir. Records
already present are skipped.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().String("out", "", "dump directory (default libris.dump_dir)")
	harvestCmd.Flags().String("libris-list", "", "file of identifiers to download, one per line")
	harvestCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	ids := append([]string(nil), args...)
	if list, _ := cmd.Flags().GetString("libris-list"); list != "" {
		more, err := libris.ReadList(list)
		if err != nil {
			return err
		}
		ids = append(ids, more...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("provide identifiers or --libris-list")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("out")
	if dir == "" {
		dir = cfg.Libris.DumpDir
	}
	if dir == "" {
		return fmt.Errorf("no dump directory: set --out or libris.dump_dir")
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	result, err := libris.NewClient(cfg.Libris).Harvest(context.Background(), ids, dir, delay, os.Stdout)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d record(s) failed download", result.Failed)
	}
	return nil
}
