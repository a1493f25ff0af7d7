// Package processor turns one source guidance document into its output counterpart.
package processor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/llm-guidance/internal/guidance"
	"github.com/scan-io-git/llm-guidance/internal/transform"
	"github.com/scan-io-git/llm-guidance/pkg/shared/files"
)

// Generator produces assisted content for a document.
type Generator interface {
	Transform(ctx context.Context, doc guidance.Document) (string, error)
}

// Processor reads a document, generates its rewrite and writes it below the output root.
type Processor struct {
	sourceDir     string
	outputDir     string
	assisted      Generator
	deterministic *transform.Deterministic
	logger        hclog.Logger
}

// New creates a Processor. A nil assisted generator means deterministic mode only.
func New(sourceDir, outputDir string, assisted Generator, logger hclog.Logger) *Processor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Processor{
		sourceDir:     sourceDir,
		outputDir:     outputDir,
		assisted:      assisted,
		deterministic: transform.NewDeterministic(logger),
		logger:        logger.Named("processor"),
	}
}

// OutputPath returns where the rewrite of rel is written.
func (p *Processor) OutputPath(rel string) (string, error) {
	return files.EnsureWithinRoot(p.outputDir, filepath.Join(p.outputDir, filepath.FromSlash(rel)))
}

// Process rewrites the document at rel and reports which mode produced the output.
// Assisted failures fall back to the deterministic transformer; only read and write
// errors are returned.
func (p *Processor) Process(ctx context.Context, rel string) (guidance.Mode, error) {
	target, err := p.OutputPath(rel)
	if err != nil {
		return "", fmt.Errorf("invalid output path for %q: %w", rel, err)
	}

	doc, err := guidance.Load(p.sourceDir, rel)
	if err != nil {
		return "", err
	}

	text, mode := p.generate(ctx, doc)
	if err := files.WriteFile(target, []byte(text)); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", target, err)
	}
	return mode, nil
}

func (p *Processor) generate(ctx context.Context, doc guidance.Document) (string, guidance.Mode) {
	if p.assisted != nil {
		out, err := p.assisted.Transform(ctx, doc)
		if err == nil {
			return transform.NormalizeTrailing(out), guidance.ModeAssisted
		}
		if errors.Is(err, context.Canceled) {
			p.logger.Debug("assisted generation cancelled", "path", doc.RelPath)
		} else {
			p.logger.Info("assisted generation failed, using templates", "path", doc.RelPath, "error", err)
		}
	}
	return p.deterministic.Transform(doc), guidance.ModeDeterministic
}
