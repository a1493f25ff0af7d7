package assisted

import (
	"strings"

	"github.com/scan-io-git/llm-guidance/internal/config"
	"github.com/scan-io-git/llm-guidance/internal/guidance"
	"github.com/scan-io-git/llm-guidance/internal/markdown"
	"github.com/scan-io-git/llm-guidance/internal/template"
)

// Source sections quoted into the prompt.
const (
	overviewSection = "Overview"
	strategySection = "Remediation Strategy"
	stepsSection    = "Remediation Steps"
)

// BuildPrompt renders the generation prompt for doc. Source excerpts are cut to the
// configured character budgets, and language-scoped documents additionally ask for one
// minimal safe pattern.
func BuildPrompt(r *template.Renderer, doc guidance.Document, cfg config.Assisted) (string, error) {
	title, _, _ := strings.Cut(doc.Text, "\n")
	_, scoped := doc.Scope()

	return r.Render(template.PromptTemplate, template.PromptData{
		Title:          strings.TrimRight(title, "\r"),
		Overview:       markdown.ExtractSection(doc.Text, overviewSection),
		Strategy:       markdown.ExtractSection(doc.Text, strategySection),
		Steps:          markdown.ExtractSection(doc.Text, stepsSection),
		LanguageFile:   scoped,
		OverviewBudget: cfg.OverviewBudget,
		StrategyBudget: cfg.StrategyBudget,
		StepsBudget:    cfg.StepsBudget,
	})
}
