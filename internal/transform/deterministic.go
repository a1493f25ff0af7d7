// Package transform rewrites guidance documents from static templates.
package transform

import (
	"strings"
	"unicode"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/llm-guidance/internal/category"
	"github.com/scan-io-git/llm-guidance/internal/guidance"
	"github.com/scan-io-git/llm-guidance/internal/markdown"
	"github.com/scan-io-git/llm-guidance/internal/templates"
)

// DeprecatedSections are removed from every document before rewriting.
var DeprecatedSections = []string{
	"Overview",
	"Data Path Focus",
	"Testing & Verification",
	"References",
	"Common Pitfalls to Avoid",
	"Common Vulnerable Patterns",
}

// SecurePatternsHeading anchors the minimal safe pattern when a document has none yet.
const SecurePatternsHeading = "Secure Patterns"

// Deterministic produces a reproducible rewrite of a document using only static templates.
type Deterministic struct {
	logger hclog.Logger
}

// NewDeterministic creates a Deterministic transformer.
func NewDeterministic(logger hclog.Logger) *Deterministic {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Deterministic{logger: logger.Named("deterministic")}
}

// Transform rewrites doc. It never fails; sections it cannot anchor are left as they are.
func (t *Deterministic) Transform(doc guidance.Document) string {
	text := markdown.StripSections(doc.Text, DeprecatedSections)

	cat := category.Classify(doc.Title())
	t.logger.Debug("classified document", "path", doc.RelPath, "cwe", doc.CategoryID(), "category", cat.String())
	text = markdown.ReplaceSection(text, templates.StrategyHeading, templates.StrategySection(cat))

	if doc.IsCategoryRoot() {
		text = markdown.ReplaceSection(text, templates.StepsHeading, templates.StepsSection())
	}

	if lang, ok := doc.Scope(); ok {
		if snippet, found := templates.Snippet(cat, lang); found {
			t.logger.Debug("inserting safe pattern", "path", doc.RelPath, "language", lang, "specific", templates.HasSpecificSnippet(cat, lang))
			text = markdown.InsertIntoSection(text, SecurePatternsHeading, snippet)
		} else {
			t.logger.Debug("no safe pattern registered for language", "path", doc.RelPath, "language", lang, "known", templates.Languages())
		}
	}

	return NormalizeTrailing(text)
}

// NormalizeTrailing leaves exactly one trailing newline and no trailing blank lines.
func NormalizeTrailing(text string) string {
	return strings.TrimRightFunc(text, unicode.IsSpace) + "\n"
}
