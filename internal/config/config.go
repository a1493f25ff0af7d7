package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

// Environment variables recognised at startup.
const (
	EnvAssistedEnabled = "RW_LLM"
	EnvAssistedCommand = "RW_COPILOT_CMD"
	EnvLogLevel        = "GUIDANCE_LOG_LEVEL"
)

// DefaultConfigFile is used when no --config flag is given.
const DefaultConfigFile = "config.yml"

// EnvFile is the optional dotenv file read from the working directory.
const EnvFile = ".env"

// Config is the application configuration. It is built once at startup and passed
// explicitly to every component that needs it.
type Config struct {
	Logger   Logger   `yaml:"logger" json:"logger"`
	Guidance Guidance `yaml:"guidance" json:"guidance"`
	Assisted Assisted `yaml:"assisted" json:"assisted"`
}

// Logger holds logging settings.
type Logger struct {
	Level           string `yaml:"level" json:"level"`
	DisableTime     *bool  `yaml:"disable_time" json:"disable_time,omitempty"`
	JSONFormat      *bool  `yaml:"json_format" json:"json_format,omitempty"`
	IncludeLocation *bool  `yaml:"include_location" json:"include_location,omitempty"`
}

// Guidance describes the source corpus and the mirrored output tree.
type Guidance struct {
	SourceDir     string   `yaml:"source_dir" json:"source_dir"`
	OutputDir     string   `yaml:"output_dir" json:"output_dir"`
	IndexFile     string   `yaml:"index_file" json:"index_file"`
	ExcludedDirs  []string `yaml:"excluded_dirs" json:"excluded_dirs"`
	LedgerFile    string   `yaml:"ledger_file" json:"ledger_file"`
	ReviewLogFile string   `yaml:"review_log_file" json:"review_log_file"`
	AuditDir      string   `yaml:"audit_dir" json:"audit_dir"`
	ReportFile    string   `yaml:"report_file" json:"report_file,omitempty"`
}

// outputPath resolves name against the output tree unless it is absolute.
func (g Guidance) outputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(g.OutputDir, name)
}

// LedgerPath returns the location of the progress ledger.
func (g Guidance) LedgerPath() string {
	return g.outputPath(g.LedgerFile)
}

// ReviewLogPath returns the location of the review log.
func (g Guidance) ReviewLogPath() string {
	return g.outputPath(g.ReviewLogFile)
}

// AuditPath returns the transcript directory.
func (g Guidance) AuditPath() string {
	return g.outputPath(g.AuditDir)
}

// Assisted configures the external text-generation tool.
type Assisted struct {
	Enabled        *bool         `yaml:"enabled" json:"enabled"`
	Command        string        `yaml:"command" json:"command"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
	OverviewBudget int           `yaml:"overview_budget" json:"overview_budget"`
	StrategyBudget int           `yaml:"strategy_budget" json:"strategy_budget"`
	StepsBudget    int           `yaml:"steps_budget" json:"steps_budget"`
}

// IsEnabled reports whether the assisted path should be attempted.
func (a Assisted) IsEnabled() bool {
	return GetBoolValue(a, "Enabled", true)
}

// Default returns a configuration populated with default values.
func Default() *Config {
	enabled := true
	return &Config{
		Logger: Logger{Level: "INFO"},
		Guidance: Guidance{
			SourceDir:     "guidance",
			OutputDir:     "llm_guidance",
			IndexFile:     "INDEX.md",
			ExcludedDirs:  []string{"_dynamic"},
			LedgerFile:    "LLM_GUIDANCE_SPEC.md",
			ReviewLogFile: "LLM_REVIEW_LOG.md",
			AuditDir:      "llm_audit",
		},
		Assisted: Assisted{
			Enabled:        &enabled,
			Command:        "copilot",
			Timeout:        300 * time.Second,
			OverviewBudget: 400,
			StrategyBudget: 600,
			StepsBudget:    600,
		},
	}
}

// ValidateConfigPath checks that path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and the process environment, in that order.
// A missing YAML file is not an error when path is the default file name.
func LoadConfig(path string) (*Config, error) {
	return loadConfig(path, EnvFile, os.LookupEnv)
}

func loadConfig(path, envFile string, lookup func(string) (string, bool)) (*Config, error) {
	fileCfg := &Config{}
	if path == "" {
		path = DefaultConfigFile
	}
	if err := LoadYAML(path, fileCfg); err != nil {
		if !(os.IsNotExist(err) && path == DefaultConfigFile) {
			return nil, fmt.Errorf("failed to load config file %q: %w", path, err)
		}
	}

	// .env never overrides variables that are already set
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
	}

	cfg := merge(Default(), fileCfg)
	applyEnv(cfg, lookup)
	return cfg, nil
}

// merge overlays explicitly set values from file onto defaults.
func merge(defaults, file *Config) *Config {
	cfg := *defaults

	cfg.Logger.Level = SetThen(file.Logger.Level, defaults.Logger.Level)
	cfg.Logger.DisableTime = SetThen(file.Logger.DisableTime, defaults.Logger.DisableTime)
	cfg.Logger.JSONFormat = SetThen(file.Logger.JSONFormat, defaults.Logger.JSONFormat)
	cfg.Logger.IncludeLocation = SetThen(file.Logger.IncludeLocation, defaults.Logger.IncludeLocation)

	g, dg := file.Guidance, defaults.Guidance
	cfg.Guidance = Guidance{
		SourceDir:     SetThen(g.SourceDir, dg.SourceDir),
		OutputDir:     SetThen(g.OutputDir, dg.OutputDir),
		IndexFile:     SetThen(g.IndexFile, dg.IndexFile),
		ExcludedDirs:  SetThen(g.ExcludedDirs, dg.ExcludedDirs),
		LedgerFile:    SetThen(g.LedgerFile, dg.LedgerFile),
		ReviewLogFile: SetThen(g.ReviewLogFile, dg.ReviewLogFile),
		AuditDir:      SetThen(g.AuditDir, dg.AuditDir),
		ReportFile:    g.ReportFile,
	}

	a, da := file.Assisted, defaults.Assisted
	cfg.Assisted = Assisted{
		Enabled:        SetThen(a.Enabled, da.Enabled),
		Command:        SetThen(a.Command, da.Command),
		Timeout:        SetThen(a.Timeout, da.Timeout),
		OverviewBudget: SetThen(a.OverviewBudget, da.OverviewBudget),
		StrategyBudget: SetThen(a.StrategyBudget, da.StrategyBudget),
		StepsBudget:    SetThen(a.StepsBudget, da.StepsBudget),
	}
	return &cfg
}

// applyEnv applies the environment overrides. RW_LLM=0 disables the assisted path.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAssistedEnabled); ok {
		enabled := v != "0"
		cfg.Assisted.Enabled = &enabled
	}
	if v, ok := lookup(EnvAssistedCommand); ok && v != "" {
		cfg.Assisted.Command = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logger.Level = v
	}
}
