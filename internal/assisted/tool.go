package assisted

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/scan-io-git/llm-guidance/internal/template"
)

// PromptPlaceholder stands in for the prompt when an argv is displayed.
const PromptPlaceholder = "<PROMPT>"

// LookPathFunc resolves an executable name, with the semantics of exec.LookPath.
type LookPathFunc func(file string) (string, error)

// Tool is a parsed external tool command line.
type Tool struct {
	Command  string   // command line as configured
	Parts    []string // command line split with shell rules
	Resolved string   // result of the PATH lookup, if any
}

// Binary returns the executable named by the command line.
func (t *Tool) Binary() string {
	if len(t.Parts) == 0 {
		return ""
	}
	return t.Parts[0]
}

// IsScript reports whether the binary is a PowerShell script.
func (t *Tool) IsScript() bool {
	return strings.EqualFold(filepath.Ext(t.Binary()), ".ps1")
}

// Argv returns the full invocation for prompt: "<parts...> -i <prompt>", with scripts
// run through PowerShell.
func (t *Tool) Argv(prompt string) []string {
	var argv []string
	if t.IsScript() {
		argv = append(argv, "powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-File", t.Binary())
		argv = append(argv, t.Parts[1:]...)
	} else {
		argv = append(argv, t.Parts...)
	}
	return append(argv, "-i", prompt)
}

// DisplayArgv is Argv with the prompt replaced by PromptPlaceholder.
func (t *Tool) DisplayArgv() []string {
	return t.Argv(PromptPlaceholder)
}

// Diagnostics describes why a tool could not be used.
func (t *Tool) Diagnostics(pathEnv string) template.SkippedData {
	bin := t.Binary()
	d := template.SkippedData{
		Command:      t.Command,
		Binary:       bin,
		PathAbsolute: filepath.IsAbs(bin),
		LookPath:     t.Resolved,
		PathEnv:      pathEnv,
	}
	if bin != "" {
		d.BinaryPath = filepath.Clean(bin)
		_, err := os.Stat(bin)
		d.PathExists = err == nil
	}
	return d
}

// ProbeTool parses command and checks that its binary can be run. Scripts are assumed
// runnable, absolute paths must exist, anything else must resolve through lookPath.
// The returned Tool is non-nil whenever command parses, so callers can report diagnostics.
func ProbeTool(command string, lookPath LookPathFunc) (*Tool, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	parts, err := shlex.Split(command)
	if err != nil {
		return &Tool{Command: command}, fmt.Errorf("%w: invalid command %q: %v", ErrToolUnavailable, command, err)
	}
	tool := &Tool{Command: command, Parts: parts}
	if len(parts) == 0 {
		return tool, fmt.Errorf("%w: empty command", ErrToolUnavailable)
	}

	bin := tool.Binary()
	switch {
	case tool.IsScript():
		return tool, nil
	case filepath.IsAbs(bin):
		if _, err := os.Stat(bin); err != nil {
			return tool, fmt.Errorf("%w: %s: %v", ErrToolUnavailable, bin, err)
		}
		tool.Resolved = bin
		return tool, nil
	}

	resolved, err := lookPath(bin)
	if err != nil {
		return tool, fmt.Errorf("%w: %s not found on PATH: %v", ErrToolUnavailable, bin, err)
	}
	tool.Resolved = resolved
	return tool, nil
}
