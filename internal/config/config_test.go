package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", missingEnvFile(t), envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Assisted.IsEnabled())
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
guidance:
  source_dir: docs
  excluded_dirs: []
assisted:
  enabled: false
  command: "gen --fast"
  timeout: 90s
  steps_budget: 100
`)

	t.Run("file only", func(t *testing.T) {
		cfg, err := loadConfig(path, missingEnvFile(t), envMap(nil))
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "docs", cfg.Guidance.SourceDir)
		assert.Equal(t, "llm_guidance", cfg.Guidance.OutputDir)
		assert.Empty(t, cfg.Guidance.ExcludedDirs)
		assert.False(t, cfg.Assisted.IsEnabled())
		assert.Equal(t, "gen --fast", cfg.Assisted.Command)
		assert.Equal(t, 90*time.Second, cfg.Assisted.Timeout)
		assert.Equal(t, 100, cfg.Assisted.StepsBudget)
		assert.Equal(t, 400, cfg.Assisted.OverviewBudget)
	})

	t.Run("environment wins", func(t *testing.T) {
		cfg, err := loadConfig(path, missingEnvFile(t), envMap(map[string]string{
			EnvAssistedEnabled: "1",
			EnvAssistedCommand: "other-tool",
			EnvLogLevel:        "trace",
		}))
		require.NoError(t, err)
		assert.True(t, cfg.Assisted.IsEnabled())
		assert.Equal(t, "other-tool", cfg.Assisted.Command)
		assert.Equal(t, "trace", cfg.Logger.Level)
	})

	t.Run("RW_LLM=0 disables", func(t *testing.T) {
		cfg, err := loadConfig("", missingEnvFile(t), envMap(map[string]string{EnvAssistedEnabled: "0"}))
		require.NoError(t, err)
		assert.False(t, cfg.Assisted.IsEnabled())
	})
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"), missingEnvFile(t), envMap(nil))
	assert.Error(t, err, "an explicit config file must exist")

	_, err = loadConfig(writeConfig(t, "assisted: [not, a, map]"), missingEnvFile(t), envMap(nil))
	assert.Error(t, err)

	_, err = loadConfig(t.TempDir(), missingEnvFile(t), envMap(nil))
	assert.Error(t, err, "a directory is not a config file")
}

func TestLoadConfigEnvFile(t *testing.T) {
	t.Run("malformed file is reported", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("BAD-KEY=1\n"), 0o644))

		_, err := loadConfig("", envFile, envMap(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load env file")
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		cfg, err := loadConfig("", missingEnvFile(t), envMap(nil))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
}

func TestGuidancePaths(t *testing.T) {
	g := Default().Guidance
	assert.Equal(t, filepath.Join("llm_guidance", "LLM_GUIDANCE_SPEC.md"), g.LedgerPath())
	assert.Equal(t, filepath.Join("llm_guidance", "LLM_REVIEW_LOG.md"), g.ReviewLogPath())
	assert.Equal(t, filepath.Join("llm_guidance", "llm_audit"), g.AuditPath())

	abs := filepath.Join(t.TempDir(), "ledger.md")
	g.LedgerFile = abs
	assert.Equal(t, abs, g.LedgerPath())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "missing source", mutate: func(c *Config) { c.Guidance.SourceDir = " " }, wantErr: true},
		{name: "index file with path", mutate: func(c *Config) { c.Guidance.IndexFile = "a/INDEX.md" }, wantErr: true},
		{name: "same source and output", mutate: func(c *Config) { c.Guidance.OutputDir = "./guidance" }, wantErr: true},
		{name: "output inside source", mutate: func(c *Config) { c.Guidance.SourceDir = "." }, wantErr: true},
		{name: "output nested deeper in source", mutate: func(c *Config) { c.Guidance.OutputDir = "guidance/out/llm" }, wantErr: true},
		{name: "source inside output", mutate: func(c *Config) { c.Guidance.SourceDir = "llm_guidance/src" }},
		{name: "sibling with shared prefix", mutate: func(c *Config) { c.Guidance.OutputDir = "guidance_llm" }},
		{name: "zero timeout", mutate: func(c *Config) { c.Assisted.Timeout = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Assisted.Timeout = -time.Second }, wantErr: true},
		{name: "timeout too long", mutate: func(c *Config) { c.Assisted.Timeout = 2 * time.Hour }, wantErr: true},
		{name: "budget too small", mutate: func(c *Config) { c.Assisted.OverviewBudget = 0 }, wantErr: true},
		{name: "budget too large", mutate: func(c *Config) { c.Assisted.StrategyBudget = 10001 }, wantErr: true},
		{name: "empty command when enabled", mutate: func(c *Config) { c.Assisted.Command = "" }, wantErr: true},
		{name: "unbalanced quote", mutate: func(c *Config) { c.Assisted.Command = `tool "x` }, wantErr: true},
		{
			name: "empty command when disabled",
			mutate: func(c *Config) {
				disabled := false
				c.Assisted.Enabled = &disabled
				c.Assisted.Command = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, ValidateConfig(nil))
}

func TestGetBoolValue(t *testing.T) {
	yes := true
	cfg := &Config{Logger: Logger{JSONFormat: &yes}}

	assert.True(t, GetBoolValue(cfg, "Logger.JSONFormat", false))
	assert.True(t, GetBoolValue(cfg, "Logger.DisableTime", true))
	assert.False(t, GetBoolValue(cfg, "Logger.Missing", false))
	assert.False(t, GetBoolValue(nil, "Logger.JSONFormat", false))
	var nilCfg *Config
	assert.True(t, GetBoolValue(nilCfg, "Logger.JSONFormat", true))
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, "b", SetThen("", "b"))
	assert.Equal(t, "a", SetThen("a", "b"))
	assert.Equal(t, 3, SetThen(0, 3))
	assert.Equal(t, []string{}, SetThen([]string{}, []string{"x"}))
	assert.Equal(t, []string{"x"}, SetThen([]string(nil), []string{"x"}))
}
