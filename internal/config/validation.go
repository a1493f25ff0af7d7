package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/shlex"
)

const (
	maxTimeout = 1 * time.Hour
	maxBudget  = 10000
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateGuidanceConfig(&cfg.Guidance); err != nil {
		return fmt.Errorf("YAML global config: guidance directive is invalid: %w", err)
	}
	if err := ValidateAssistedConfig(&cfg.Assisted); err != nil {
		return fmt.Errorf("YAML global config: assisted directive is invalid: %w", err)
	}
	return nil
}

// ValidateGuidanceConfig checks the source and output tree settings.
func ValidateGuidanceConfig(g *Guidance) error {
	if g == nil {
		return fmt.Errorf("guidance configuration is nil")
	}

	required := map[string]string{
		"source_dir":      g.SourceDir,
		"output_dir":      g.OutputDir,
		"index_file":      g.IndexFile,
		"ledger_file":     g.LedgerFile,
		"review_log_file": g.ReviewLogFile,
		"audit_dir":       g.AuditDir,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}

	if strings.ContainsAny(g.IndexFile, `/\`) {
		return fmt.Errorf("index_file must be a bare file name: %q", g.IndexFile)
	}

	src, err := filepath.Abs(g.SourceDir)
	if err != nil {
		return fmt.Errorf("resolve source_dir: %w", err)
	}
	out, err := filepath.Abs(g.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output_dir: %w", err)
	}
	if isWithin(src, out) {
		return fmt.Errorf("output_dir must not be source_dir or lie inside it: %q", g.OutputDir)
	}
	return nil
}

// isWithin reports whether target is root or one of its descendants.
func isWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ValidateAssistedConfig checks the external generation tool settings.
func ValidateAssistedConfig(a *Assisted) error {
	if a == nil {
		return fmt.Errorf("assisted configuration is nil")
	}

	if err := validateDuration(a.Timeout, "timeout", maxTimeout); err != nil {
		return err
	}
	if a.Timeout == 0 {
		return fmt.Errorf("timeout must be positive")
	}

	budgets := map[string]int{
		"overview_budget": a.OverviewBudget,
		"strategy_budget": a.StrategyBudget,
		"steps_budget":    a.StepsBudget,
	}
	for name, budget := range budgets {
		if budget < 1 || budget > maxBudget {
			return fmt.Errorf("%s must be between 1 and %d: %d", name, maxBudget, budget)
		}
	}

	if !a.IsEnabled() {
		return nil
	}
	parts, err := shlex.Split(a.Command)
	if err != nil {
		return fmt.Errorf("command %q cannot be parsed: %w", a.Command, err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("command must be set when the assisted mode is enabled")
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %s: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%s duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}
