package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/llm-guidance/cmd/generate"
	"github.com/scan-io-git/llm-guidance/cmd/version"
	"github.com/scan-io-git/llm-guidance/internal/config"
	cmderrors "github.com/scan-io-git/llm-guidance/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "llm-guidance [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "llm-guidance rewrites CWE guidance documents into a compact form for LLM consumption.",
		Long: `llm-guidance reads per-CWE guidance documents, classifies each by vulnerability category and
	rewrites it into a normalized, LLM-consumable form in a mirrored output tree. The source documents are never modified.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigFile))
	rootCmd.AddCommand(generate.GenerateCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		var cmdErr *cmderrors.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode != 0 {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	generate.Init(AppConfig)
	version.Init(AppConfig)
}
