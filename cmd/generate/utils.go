package generate

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/llm-guidance/internal/assisted"
	"github.com/scan-io-git/llm-guidance/internal/audit"
	"github.com/scan-io-git/llm-guidance/internal/config"
	"github.com/scan-io-git/llm-guidance/internal/git"
	"github.com/scan-io-git/llm-guidance/internal/pipeline"
	"github.com/scan-io-git/llm-guidance/internal/processor"
)

// HasFlags reports whether any flag of the set was given on the command line.
func HasFlags(flags *pflag.FlagSet) bool {
	changed := false
	flags.Visit(func(*pflag.Flag) { changed = true })
	return changed
}

// logChangedFlags logs every flag set on the command line at debug level.
func logChangedFlags(flags *pflag.FlagSet, logger hclog.Logger) {
	flags.Visit(func(f *pflag.Flag) {
		logger.Debug("flag set", "name", f.Name, "value", f.Value.String())
	})
}

// effectiveConfig applies command flags on top of the global configuration.
func effectiveConfig(cfg *config.Config, options *RunOptionsGenerate) *config.Config {
	if cfg == nil {
		cfg = config.Default()
	}
	effective := *cfg
	if options.Deterministic {
		disabled := false
		effective.Assisted.Enabled = &disabled
	}
	return &effective
}

// newDriver wires the processor and its transformers for one run.
func newDriver(cfg *config.Config, runID string, metadata *git.RepositoryMetadata, out io.Writer, logger hclog.Logger) *pipeline.Driver {
	var generator processor.Generator
	if cfg.Assisted.IsEnabled() {
		transcripts := audit.NewTranscripts(cfg.Guidance.AuditPath())
		generator = assisted.New(cfg.Assisted, transcripts, logger, assisted.WithRunInfo(runID, metadata.Revision()))
	}

	proc := processor.New(cfg.Guidance.SourceDir, cfg.Guidance.OutputDir, generator, logger)
	return pipeline.NewDriver(cfg.Guidance, proc, logger,
		pipeline.WithOutput(out),
		pipeline.WithRunInfo(runID, metadata),
	)
}

// printSelection prints the selection banners before a run.
func printSelection(out io.Writer, sel pipeline.Selection) {
	if len(sel.Paths) > 0 {
		fmt.Fprintf(out, "Processing specific files: %s\n", strings.Join(sel.Paths, ", "))
	}
	if len(sel.Categories) > 0 {
		fmt.Fprintf(out, "Processing CWEs: %s\n", strings.Join(sel.Categories, ", "))
	}
	if sel.Force {
		fmt.Fprintln(out, "Force mode: will re-process existing files")
	}
	if sel.DryRun {
		fmt.Fprintln(out, "Dry run: no files will be written")
	}
}

// printSummary prints the counts after a run.
func printSummary(out io.Writer, cfg *config.Config, sel pipeline.Selection, report *pipeline.Report) {
	if report == nil {
		return
	}

	var scope string
	switch {
	case !sel.IsFiltered():
		scope = fmt.Sprintf("from %s/ to %s/", cfg.Guidance.SourceDir, cfg.Guidance.OutputDir)
	case len(sel.Paths) > 0:
		scope = "for paths: " + strings.Join(sel.Paths, ", ")
	default:
		scope = "for CWEs: " + strings.Join(sel.Categories, ", ")
	}

	if sel.DryRun {
		fmt.Fprintf(out, "\nWould process %d files, skipped %d %s\n", report.Planned, report.Skipped, scope)
		return
	}
	fmt.Fprintf(out, "\nProcessed %d files, skipped %d %s\n", report.Processed, report.Skipped, scope)
	fmt.Fprintf(out, "Updated %s\n", cfg.Guidance.LedgerPath())
}
