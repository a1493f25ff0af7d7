// Package pipeline discovers guidance documents and drives them through the processor,
// keeping the progress ledger and review log current as each document completes.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/llm-guidance/internal/audit"
	"github.com/scan-io-git/llm-guidance/internal/config"
	"github.com/scan-io-git/llm-guidance/internal/git"
	"github.com/scan-io-git/llm-guidance/internal/guidance"
	"github.com/scan-io-git/llm-guidance/internal/ledger"
	"github.com/scan-io-git/llm-guidance/pkg/shared/files"
)

// DocumentProcessor rewrites a single document.
type DocumentProcessor interface {
	Process(ctx context.Context, rel string) (guidance.Mode, error)
}

// Driver runs the pipeline sequentially over the sorted document list.
type Driver struct {
	cfg       config.Guidance
	processor DocumentProcessor
	reviewLog *audit.ReviewLog
	out       io.Writer
	runID     string
	revision  *git.RepositoryMetadata
	now       func() time.Time
	logger    hclog.Logger
}

// Option customises a Driver.
type Option func(*Driver)

// WithOutput sets where console progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) { d.out = w }
}

// WithRunInfo records the run identifier and source revision in the report.
func WithRunInfo(runID string, revision *git.RepositoryMetadata) Option {
	return func(d *Driver) { d.runID, d.revision = runID, revision }
}

// NewDriver creates a Driver for the trees described by cfg.
func NewDriver(cfg config.Guidance, processor DocumentProcessor, logger hclog.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	d := &Driver{
		cfg:       cfg,
		processor: processor,
		reviewLog: audit.NewReviewLog(cfg.ReviewLogPath()),
		out:       io.Discard,
		now:       time.Now,
		logger:    logger.Named("pipeline"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes every selected document. The returned report is non-nil even when an
// error aborts the run, and then covers the documents handled so far.
func (d *Driver) Run(ctx context.Context, sel Selection) (*Report, error) {
	report := &Report{
		RunID:    d.runID,
		Started:  d.now().UTC(),
		Source:   d.cfg.SourceDir,
		Output:   d.cfg.OutputDir,
		Revision: d.revision,
		DryRun:   sel.DryRun,
	}
	defer func() { report.Finished = d.now().UTC() }()

	all, err := Discover(d.cfg.SourceDir, d.cfg.IndexFile, d.cfg.ExcludedDirs)
	if err != nil {
		return report, err
	}
	var docs []string
	for _, rel := range all {
		if sel.Matches(rel) {
			docs = append(docs, rel)
		}
	}
	d.logger.Debug("discovered documents", "total", len(all), "selected", len(docs))

	ledgerPath := d.cfg.LedgerPath()
	progress, err := ledger.Load(ledgerPath)
	if err != nil {
		return report, err
	}
	added := progress.Register(docs)
	d.logger.Debug("ledger loaded", "path", ledgerPath, "entries", progress.Len(), "added", len(added))
	if !sel.DryRun {
		if err := progress.Save(ledgerPath); err != nil {
			return report, err
		}
	}

	for _, rel := range docs {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("run interrupted: %w", err)
		}

		target := filepath.Join(d.cfg.OutputDir, filepath.FromSlash(rel))
		exists, err := files.Exists(target)
		if err != nil {
			return report, err
		}
		if exists && !sel.Force {
			fmt.Fprintf(d.out, "Skipped %s (already exists)\n", rel)
			report.add(DocumentResult{Path: rel, Status: StatusSkipped})
			continue
		}
		if sel.DryRun {
			done, _ := progress.State(rel)
			d.logger.Debug("document planned", "path", rel, "ledger_done", done)
			fmt.Fprintf(d.out, "Would process %s -> %s\n", rel, filepath.ToSlash(target))
			report.add(DocumentResult{Path: rel, Status: StatusPlanned})
			continue
		}

		mode, err := d.processor.Process(ctx, rel)
		if err != nil {
			return report, fmt.Errorf("failed to process %q: %w", rel, err)
		}

		progress.MarkDone(rel)
		if err := progress.Save(ledgerPath); err != nil {
			return report, err
		}
		if err := d.reviewLog.Append(rel, mode); err != nil {
			return report, err
		}

		d.logger.Debug("document processed", "path", rel, "mode", mode)
		fmt.Fprintf(d.out, "Processed %s -> %s\n", rel, filepath.ToSlash(target))
		report.add(DocumentResult{Path: rel, Status: StatusProcessed, Mode: mode})
	}

	return report, nil
}
