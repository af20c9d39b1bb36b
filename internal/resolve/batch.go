// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Vesihiisi/Biblioteksdata/internal/logger"
	"github.com/Vesihiisi/Biblioteksdata/internal/mapping"
	"github.com/Vesihiisi/Biblioteksdata/internal/record"
	"github.com/Vesihiisi/Biblioteksdata/internal/report"
	"github.com/Vesihiisi/Biblioteksdata/pkg/types"
)

// Action is what an uploader did with an item.
type Action string

const (
	ActionSkipped Action = "skipped"
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Uploader writes a finalized item to the knowledge base. It returns the
// id the item was written to.
type Uploader interface {
	Upload(ctx context.Context, res *Result) (Action, string, error)
}

// Summary holds counts from one batch run.
type Summary struct {
	Built   int
	Created int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records processed.
func (s Summary) Total() int {
	return s.Built + s.Created + s.Updated + s.Skipped + s.Failed
}

// Runner takes records one at a time through a pipeline and, when an
// Uploader is set, through the upload step.
type Runner struct {
	Pipeline *Pipeline
	Env      *Env

	// Uploader is nil for a dry run: items are built but not written.
	Uploader Uploader

	// Reports collects the problem report of every built record.
	Reports *report.Batch

	// Results, when set, receives every finalized record.
	Results func(*Result)

	summary Summary
}

// Process handles one record. name identifies it in progress output and
// readErr is the error from reading it, if any. A record that fails is
// counted and reported; only context cancellation stops the batch.
func (r *Runner) Process(ctx context.Context, name string, rec *record.SourceRecord, readErr error, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if readErr != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, readErr)
		r.summary.Failed++
		return nil
	}

	res, err := r.Pipeline.Run(ctx, r.Env, rec)
	switch {
	case errors.Is(err, ErrNotApplicable):
		fmt.Fprintf(w, "skipped: %s (%v)\n", name, err)
		r.summary.Skipped++
		return nil
	case err != nil:
		r.Env.log().Warn("record abandoned", logger.String("record", name), logger.Error(err))
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		r.summary.Failed++
		return nil
	}

	if r.Reports != nil {
		r.Reports.Add(res.Report)
	}
	if r.Results != nil {
		r.Results(res)
	}

	if r.Uploader == nil {
		fmt.Fprintf(w, "built:   %s (%d statements)\n", res.URI, len(res.Item.Statements))
		r.summary.Built++
		return nil
	}
	if !res.Item.Upload() {
		fmt.Fprintf(w, "skipped: %s (%s)\n", res.URI, res.Item.DisqualifiedReason())
		r.summary.Skipped++
		return nil
	}

	action, id, err := r.Uploader.Upload(ctx, res)
	if err != nil {
		r.Env.log().Warn("upload failed", logger.String("uri", res.URI), logger.Error(err))
		fmt.Fprintf(w, "failed:  %s (%v)\n", res.URI, err)
		r.summary.Failed++
		return nil
	}
	switch action {
	case ActionCreated:
		res.Report.Backfill(id)
		r.remember(res.URI, id)
		fmt.Fprintf(w, "created: %s -> %s\n", res.URI, id)
		r.summary.Created++
	case ActionUpdated:
		fmt.Fprintf(w, "updated: %s -> %s\n", res.URI, id)
		r.summary.Updated++
	default:
		fmt.Fprintf(w, "skipped: %s\n", res.URI)
		r.summary.Skipped++
	}
	return nil
}

// remember adds a created entity to the primary index so later records in
// the same run can link to it.
func (r *Runner) remember(uri, id string) {
	if r.Env.Indices == nil {
		r.Env.Indices = make(mapping.Indices)
	}
	idx := r.Env.Indices[types.MatchPrimaryURI]
	if idx == nil {
		idx = mapping.NewIndex(types.MatchPrimaryURI)
		r.Env.Indices[types.MatchPrimaryURI] = idx
	}
	idx.Add(uri, id)
}

// Summary returns the counts so far.
func (r *Runner) Summary() Summary { return r.summary }

// Finish prints the summary line and returns the counts.
func (r *Runner) Finish(w io.Writer) Summary {
	s := r.summary
	fmt.Fprintf(w, "\n%s summary: %d built, %d created, %d updated, %d skipped, %d failed (%d total)\n",
		r.Pipeline.Kind, s.Built, s.Created, s.Updated, s.Skipped, s.Failed, s.Total())
	return s
}
