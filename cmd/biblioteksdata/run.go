// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vesihiisi/Biblioteksdata/internal/dedupe"
	"github.com/Vesihiisi/Biblioteksdata/internal/libris"
	"github.com/Vesihiisi/Biblioteksdata/internal/logger"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/names"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/internal/report"
	"github.com/Vesihiisi/Biblioteksdata/internal/resolve"
	"github.com/Vesihiisi/Biblioteksdata/internal/store"
	"github.com/Vesihiisi/Biblioteksdata/internal/upload"
	"github.com/Vesihiisi/Biblioteksdata/internal/wikibase"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// importKind describes what an import subcommand needs besides its records.
type importKind struct {
	pipeline *resolve.Pipeline
	tables   []string
	indices  []types.MatchKind

	// people resolves names and checks existing dates.
	people bool
}

var (
	editionImport   = importKind{pipeline: resolve.Edition, tables: mapping.EditionTables, indices: wikibase.EditionIndices}
	authorityImport = importKind{pipeline: resolve.Person, tables: mapping.AuthorityTables, indices: wikibase.AuthorityIndices, people: true}
)

// emitFunc receives one record, or the error reading it.
type emitFunc func(name string, rec *record.SourceRecord, err error) error

// recordSource feeds records to emit in order.
type recordSource func(ctx context.Context, emit emitFunc) error

// runImport provisions the run, feeds every record from src through the
// pipeline and writes the problem report.
func runImport(cmd *cobra.Command, kind importKind, src func(cfg types.ImportConfig) (recordSource, error)) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	env, err := buildEnv(ctx, cfg, kind, st, log)
	if err != nil {
		return err
	}

	source, err := src(cfg)
	if err != nil {
		return err
	}

	var reports report.Batch
	runner := &resolve.Runner{Pipeline: kind.pipeline, Env: env, Reports: &reports}
	if cfg.Upload.Mode != types.UploadNone {
		up := upload.New(cfg.Upload, env.Tables.Get(mapping.Properties), st, log)
		runner.Uploader = up
		fmt.Fprintf(os.Stderr, "Upload mode %s (run %s)\n", cfg.Upload.Mode, up.RunID())
	}

	dumpPath, _ := cmd.Flags().GetString("dump")
	var results []*resolve.Result
	if dumpPath != "" {
		runner.Results = func(r *resolve.Result) { results = append(results, r) }
	}

	err = source(ctx, func(name string, rec *record.SourceRecord, readErr error) error {
		return runner.Process(ctx, name, rec, readErr, os.Stdout)
	})
	summary := runner.Finish(os.Stdout)
	if err != nil {
		return err
	}

	if err := reports.WriteFile(cfg.ReportPath); err != nil {
		return err
	}
	if reports.Len() > 0 {
		fmt.Printf("Wrote %d problem report(s) to %s\n", reports.Len(), cfg.ReportPath)
	}
	if dumpPath != "" {
		if err := resolve.WriteYAML(dumpPath, results); err != nil {
			return err
		}
		fmt.Printf("Exported %d item(s) to %s\n", len(results), dumpPath)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed", summary.Failed)
	}
	return nil
}

// buildEnv loads the mapping tables and identifier indices and wires the
// knowledge base collaborators. Any failure here stops the run before the
// first record.
func buildEnv(ctx context.Context, cfg types.ImportConfig, kind importKind, st *store.Store, log logger.Logger) (*resolve.Env, error) {
	tables, err := mapping.Load(cfg.Mapping.Dir, kind.tables...)
	if err != nil {
		return nil, err
	}
	formats, err := mapping.LoadOptional(cfg.Mapping.Dir, mapping.Formats)
	if err != nil {
		return nil, err
	}
	tables[mapping.Formats] = formats
	properties := tables.Get(mapping.Properties)

	wb := wikibase.NewClient(cfg.Wikibase, wikibase.DefaultNameClasses)
	loader := &wikibase.IndexLoader{
		Source:     wb,
		Snapshots:  st,
		Properties: properties,
		Offline:    cfg.Mapping.Offline,
	}
	fmt.Println("Loading identifier indices:")
	indices, err := loader.Load(ctx, kind.indices, os.Stdout)
	if err != nil {
		return nil, err
	}

	env := &resolve.Env{
		Tables:              tables,
		Indices:             indices,
		Reference:           cfg.Reference,
		LabelLanguages:      cfg.LabelLanguages,
		DescriptionLanguage: cfg.DescriptionLanguage,
		Log:                 log,
	}
	if kind.people && !cfg.Mapping.Offline {
		env.Names = names.NewResolver(st, wb.LookupName)
		env.Dedupe = dedupe.NewFilter(wb, properties)
	}
	return env, nil
}

// sourceFlags are the record selection flags shared by the import commands.
type sourceFlags struct {
	dir   string
	uri   string
	list  string
	limit int
	args  []string
}

func readSourceFlags(cmd *cobra.Command, args []string) sourceFlags {
	var f sourceFlags
	f.dir, _ = cmd.Flags().GetString("dir")
	f.uri, _ = cmd.Flags().GetString("uri")
	f.list, _ = cmd.Flags().GetString("libris-list")
	f.limit, _ = cmd.Flags().GetInt("limit")
	f.args = args
	return f
}

// recordsFrom selects records from a dump directory when one is given, and
// from the catalog otherwise.
func recordsFrom(f sourceFlags) func(cfg types.ImportConfig) (recordSource, error) {
	return func(cfg types.ImportConfig) (recordSource, error) {
		dir := f.dir
		if dir == "" {
			dir = cfg.Libris.DumpDir
		}

		var legacy []string
		if f.list != "" {
			ids, err := libris.ReadList(f.list)
			if err != nil {
				return nil, err
			}
			legacy = ids
		}

		if dir != "" && len(f.args) == 0 {
			filter := libris.Filter{Limit: f.limit, URI: f.uri}
			if legacy != nil {
				filter.LegacyIDs = libris.Set(legacy)
			}
			return func(ctx context.Context, emit emitFunc) error {
				return libris.Scan(ctx, dir, filter, func(e libris.Entry) error {
					return emit(e.Path, e.Record, e.Err)
				})
			}, nil
		}

		ids := append([]string(nil), f.args...)
		if f.uri != "" {
			ids = append(ids, f.uri)
		}
		ids = append(ids, legacy...)
		if len(ids) == 0 {
			return nil, fmt.Errorf("no records selected: give --dir, --uri, --libris-list or identifiers")
		}
		if f.limit > 0 && len(ids) > f.limit {
			ids = ids[:f.limit]
		}
		client := libris.NewClient(cfg.Libris)
		return fetchSource(client, ids), nil
	}
}

// fetchSource reads each identifier from the catalog.
func fetchSource(client *libris.Client, ids []string) recordSource {
	return func(ctx context.Context, emit emitFunc) error {
		for _, id := range ids {
			rec, err := client.Fetch(ctx, id)
			if err := emit(id, rec, err); err != nil {
				return err
			}
		}
		return nil
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "", "directory of JSON-LD records (default libris.dump_dir)")
	cmd.Flags().String("uri", "", "process only the record with this URI")
	cmd.Flags().String("libris-list", "", "file of legacy catalog ids to process, one per line")
	cmd.Flags().Int("limit", 0, "stop after this many records (0 = all)")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("upload", "", "upload mode: none, sandbox or live (default upload.mode)")
	cmd.Flags().Bool("offline", false, "use the saved index snapshots instead of querying the knowledge base")
	cmd.Flags().String("report", "", "problem report path (default report_path)")
	cmd.Flags().String("dump", "", "write the finalized items to this YAML file")
}
