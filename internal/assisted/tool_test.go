package assisted

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookPathMap(known map[string]string) LookPathFunc {
	return func(file string) (string, error) {
		if p, ok := known[file]; ok {
			return p, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func TestProbeTool(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(existing, []byte("#!/bin/sh\n"), 0o755))

	lookPath := lookPathMap(map[string]string{"copilot": "/usr/local/bin/copilot"})

	tests := []struct {
		name         string
		command      string
		wantErr      bool
		wantResolved string
		wantParts    []string
	}{
		{name: "found on PATH", command: "copilot", wantResolved: "/usr/local/bin/copilot", wantParts: []string{"copilot"}},
		{name: "with arguments", command: `copilot --model "big one"`, wantResolved: "/usr/local/bin/copilot", wantParts: []string{"copilot", "--model", "big one"}},
		{name: "missing on PATH", command: "not-a-tool", wantErr: true, wantParts: []string{"not-a-tool"}},
		{name: "absolute existing", command: existing, wantResolved: existing, wantParts: []string{existing}},
		{name: "absolute missing", command: filepath.Join(dir, "missing"), wantErr: true, wantParts: []string{filepath.Join(dir, "missing")}},
		{name: "script assumed available", command: `'C:\tools\copilot.ps1' --quiet`, wantParts: []string{`C:\tools\copilot.ps1`, "--quiet"}},
		{name: "empty command", command: "   ", wantErr: true},
		{name: "unbalanced quote", command: `copilot "oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := ProbeTool(tt.command, lookPath)
			require.NotNil(t, tool)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrToolUnavailable)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantResolved, tool.Resolved)
			}
			if tt.wantParts != nil {
				assert.Equal(t, tt.wantParts, tool.Parts)
			}
		})
	}
}

func TestToolArgv(t *testing.T) {
	t.Run("plain binary", func(t *testing.T) {
		tool := &Tool{Parts: []string{"copilot", "--quiet"}}
		assert.Equal(t, []string{"copilot", "--quiet", "-i", "hello"}, tool.Argv("hello"))
		assert.Equal(t, []string{"copilot", "--quiet", "-i", PromptPlaceholder}, tool.DisplayArgv())
	})

	t.Run("powershell script", func(t *testing.T) {
		tool := &Tool{Parts: []string{"copilot.PS1", "--quiet"}}
		assert.Equal(t, []string{
			"powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-File", "copilot.PS1",
			"--quiet", "-i", "hello",
		}, tool.Argv("hello"))
	})
}

func TestToolDiagnostics(t *testing.T) {
	tool, err := ProbeTool("missing-tool --x", lookPathMap(nil))
	require.Error(t, err)

	d := tool.Diagnostics("/usr/bin:/bin")
	assert.Equal(t, "missing-tool --x", d.Command)
	assert.Equal(t, "missing-tool", d.Binary)
	assert.False(t, d.PathAbsolute)
	assert.False(t, d.PathExists)
	assert.Empty(t, d.LookPath)
	assert.Equal(t, "/usr/bin:/bin", d.PathEnv)
}
