package logger

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/llm-guidance/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want hclog.Level
	}{
		{in: "TRACE", want: hclog.Trace},
		{in: "DEBUG", want: hclog.Debug},
		{in: "INFO", want: hclog.Info},
		{in: "", want: hclog.Info},
		{in: "WARN", want: hclog.Warn},
		{in: "ERROR", want: hclog.Error},
		{in: "LOUD", want: hclog.Info},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestDetermineLogLevel(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, hclog.Info, determineLogLevel(cfg))

	cfg.Logger.Level = "debug"
	assert.Equal(t, hclog.Debug, determineLogLevel(cfg))

	t.Setenv(config.EnvLogLevel, "error")
	assert.Equal(t, hclog.Debug, determineLogLevel(cfg), "only the loaded configuration decides the level")
}

func TestNewLoggerOutput(t *testing.T) {
	yes := true
	cfg := config.Default()
	cfg.Logger.JSONFormat = &yes

	var buf bytes.Buffer
	log := newLogger(cfg, "guidance", &buf)
	log.Debug("hidden")
	log.Info("document processed", "path", "CWE-89/INDEX.md")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"@message":"document processed"`)
	assert.Contains(t, out, `"path":"CWE-89/INDEX.md"`)
	assert.Contains(t, out, `"@module":"guidance"`)
}
