package generate

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/llm-guidance/internal/config"
	"github.com/scan-io-git/llm-guidance/internal/git"
	"github.com/scan-io-git/llm-guidance/internal/logger"
	"github.com/scan-io-git/llm-guidance/internal/pipeline"
	"github.com/scan-io-git/llm-guidance/pkg/shared/errors"
)

// RunOptionsGenerate holds the arguments for the generate command.
type RunOptionsGenerate struct {
	Force         bool   `json:"force,omitempty"`
	DryRun        bool   `json:"dry_run,omitempty"`
	Deterministic bool   `json:"deterministic,omitempty"`
	Report        string `json:"report,omitempty"`
}

// Global variables for configuration and command arguments
var (
	AppConfig            *config.Config
	generateOptions      RunOptionsGenerate
	exampleGenerateUsage = `  # Process every guidance document that has no output yet
  llm-guidance generate

  # Process only CWE-78 and CWE-80
  llm-guidance generate 78 CWE-80

  # Process only the python document of CWE-94
  llm-guidance generate CWE-94/python

  # Re-process a specific document even though its output exists
  llm-guidance generate --force CWE-114/c

  # Use templates only and write a JSON run report
  llm-guidance generate --deterministic --report reports/

  # Show what would be processed without writing anything
  llm-guidance generate --dry-run 89`
)

var GenerateCmd = &cobra.Command{
	Use:                   "generate [--force/-f] [--dry-run] [--deterministic] [--report/-r PATH] [CWE_ID | PATH_PREFIX ...]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleGenerateUsage,
	Short:                 "Rewrites guidance documents into the LLM guidance tree",
	Long: `Rewrites guidance documents into the LLM guidance tree.

Positional arguments select what to process. Arguments containing a slash are path prefixes
(e.g. CWE-94/python), anything else is a CWE identifier (e.g. 78 or CWE-78). Path prefixes
take precedence when both kinds are given. Documents whose output already exists are skipped
unless --force is set.`,
	RunE: runGenerateCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runGenerateCommand executes the generate command.
func runGenerateCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-generate")

	if err := validateGenerateArgs(&generateOptions, args); err != nil {
		logger.Error("invalid generate arguments", "error", err)
		return errors.NewCommandError(generateOptions, nil, err, 1)
	}
	if HasFlags(cmd.Flags()) {
		logChangedFlags(cmd.Flags(), logger)
	} else {
		logger.Debug("no flags set, using configuration defaults")
	}

	cfg := effectiveConfig(AppConfig, &generateOptions)
	sel := pipeline.ParseSelection(args)
	sel.Force = generateOptions.Force
	sel.DryRun = generateOptions.DryRun

	out := cmd.OutOrStdout()
	printSelection(out, sel)

	runID := uuid.New().String()
	metadata, err := git.CollectRepositoryMetadata(cfg.Guidance.SourceDir)
	if err != nil {
		logger.Debug("source revision unavailable", "error", err)
		metadata = nil
	}
	logger.Debug("starting run", "run_id", runID, "revision", metadata.Revision(), "assisted", cfg.Assisted.IsEnabled())

	driver := newDriver(cfg, runID, metadata, out, logger)
	report, runErr := driver.Run(cmd.Context(), sel)

	printSummary(out, cfg, sel, report)

	if path := config.SetThen(generateOptions.Report, cfg.Guidance.ReportFile); path != "" {
		written, err := pipeline.WriteReport(report, path)
		if err != nil {
			logger.Error("failed to write report", "error", err)
			return errors.NewCommandError(generateOptions, report, err, 2)
		}
		logger.Info("run report saved", "path", written)
	}

	if runErr != nil {
		logger.Error("generate command failed", "error", runErr)
		return errors.NewCommandError(generateOptions, report, runErr, 2)
	}

	logger.Debug("generate result", "processed", report.Processed, "skipped", report.Skipped)
	return nil
}

func init() {
	GenerateCmd.Flags().BoolVarP(&generateOptions.Force, "force", "f", false, "Re-process documents even if their output already exists.")
	GenerateCmd.Flags().BoolVar(&generateOptions.DryRun, "dry-run", false, "List what would be processed or skipped without writing anything.")
	GenerateCmd.Flags().BoolVar(&generateOptions.Deterministic, "deterministic", false, "Skip the external generation tool and use templates only.")
	GenerateCmd.Flags().StringVarP(&generateOptions.Report, "report", "r", "", "Path to a file or folder for the JSON run report.")
	GenerateCmd.Flags().BoolP("help", "h", false, "Show help for the generate command.")
}
