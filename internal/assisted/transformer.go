// Package assisted generates guidance documents with an external text-generation tool.
//
// Every attempt leaves a transcript behind: either the full exchange (command, exit code,
// prompt, stdout, stderr) or a skip diagnostic when the tool cannot be found. Any failure
// is returned as an error so the caller can fall back to the deterministic transformer.
package assisted

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/llm-guidance/internal/audit"
	"github.com/scan-io-git/llm-guidance/internal/config"
	"github.com/scan-io-git/llm-guidance/internal/guidance"
	"github.com/scan-io-git/llm-guidance/internal/template"
)

// Transformer runs the external tool for one document at a time.
type Transformer struct {
	cfg         config.Assisted
	transcripts *audit.Transcripts
	renderer    *template.Renderer
	runner      Runner
	lookPath    LookPathFunc
	getenv      func(string) string
	now         func() time.Time
	runID       string
	revision    string
	logger      hclog.Logger
}

// Option customises a Transformer.
type Option func(*Transformer)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(t *Transformer) { t.runner = r }
}

// WithLookPath replaces the executable lookup.
func WithLookPath(f LookPathFunc) Option {
	return func(t *Transformer) { t.lookPath = f }
}

// WithRunInfo stamps transcripts with the run identifier and source revision.
func WithRunInfo(runID, revision string) Option {
	return func(t *Transformer) { t.runID, t.revision = runID, revision }
}

// New creates a Transformer. Transcripts are written to transcripts.
func New(cfg config.Assisted, transcripts *audit.Transcripts, logger hclog.Logger, opts ...Option) *Transformer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	t := &Transformer{
		cfg:         cfg,
		transcripts: transcripts,
		renderer:    template.MustNewTemplate(),
		runner:      ExecRunner{},
		getenv:      os.Getenv,
		now:         time.Now,
		logger:      logger.Named("assisted"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform asks the tool to rewrite doc and returns the extracted markdown.
func (t *Transformer) Transform(ctx context.Context, doc guidance.Document) (string, error) {
	tool, err := ProbeTool(t.cfg.Command, t.lookPath)
	if err != nil {
		t.logger.Debug("assisted tool unavailable", "path", doc.RelPath, "command", t.cfg.Command, "error", err)
		body, renderErr := t.renderer.Render(template.SkippedTemplate, tool.Diagnostics(t.getenv("PATH")))
		if renderErr != nil {
			return "", errors.Join(err, renderErr)
		}
		t.writeTranscript(doc.RelPath, body)
		return "", err
	}

	prompt, err := BuildPrompt(t.renderer, doc, t.cfg)
	if err != nil {
		return "", err
	}

	started := t.now()
	runCtx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	t.logger.Debug("invoking assisted tool", "path", doc.RelPath, "binary", tool.Binary())
	res, runErr := t.runner.Run(runCtx, tool.Argv(prompt))

	data := template.TranscriptData{
		Command:  tool.DisplayArgv(),
		ExitCode: res.ExitCode,
		Prompt:   prompt,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		RunID:    t.runID,
		Revision: t.revision,
		Started:  started,
	}
	if runErr != nil {
		data.Error = runErr.Error()
	}
	body, err := t.renderer.Render(template.TranscriptTemplate, data)
	if err != nil {
		return "", err
	}
	t.writeTranscript(doc.RelPath, body)

	if runErr != nil {
		return "", runErr
	}
	if res.ExitCode != 0 {
		return "", &InvocationError{ExitCode: res.ExitCode}
	}

	out, err := ParseOutput(res.Stdout)
	if err != nil {
		return "", fmt.Errorf("failed to extract guidance for %q: %w", doc.RelPath, err)
	}
	return out, nil
}

// writeTranscript stores body. A failure is logged and otherwise ignored.
func (t *Transformer) writeTranscript(relPath, body string) {
	if t.transcripts == nil {
		return
	}
	if err := t.transcripts.Write(relPath, body); err != nil {
		t.logger.Warn("failed to write transcript", "path", relPath, "error", err)
	}
}
