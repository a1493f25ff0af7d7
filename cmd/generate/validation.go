package generate

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/llm-guidance/internal/pipeline"
)

// validateGenerateArgs validates the arguments provided to the generate command.
func validateGenerateArgs(options *RunOptionsGenerate, args []string) error {
	for _, arg := range args {
		trimmed := strings.TrimSpace(arg)
		if trimmed == "" {
			return fmt.Errorf("empty selector received")
		}
		if strings.HasPrefix(trimmed, "-") {
			return fmt.Errorf("unknown flag %q", trimmed)
		}
		if strings.ContainsAny(trimmed, `/\`) {
			if pipeline.NormalizePath(trimmed) == "" {
				return fmt.Errorf("path selector %q does not name anything", arg)
			}
			for _, segment := range strings.Split(pipeline.NormalizePath(trimmed), "/") {
				if segment == ".." {
					return fmt.Errorf("path selector %q must stay inside the guidance tree", arg)
				}
			}
			continue
		}
		if pipeline.NormalizeCategory(trimmed) == "CWE-" {
			return fmt.Errorf("CWE selector %q has no identifier", arg)
		}
	}

	if options.Report != "" && strings.TrimSpace(options.Report) == "" {
		return fmt.Errorf("the 'report' flag must not be blank")
	}

	return nil
}
