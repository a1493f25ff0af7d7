package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/llm-guidance/internal/guidance"
	"github.com/scan-io-git/llm-guidance/internal/markdown"
	"github.com/scan-io-git/llm-guidance/internal/templates"
)

const sqlInput = `# CWE-89: SQL Injection

## Overview
Untrusted data reaches a query.

## Remediation Strategy
- old advice

## Secure Patterns
Prefer bound parameters.

## References
- https://cwe.mitre.org/data/definitions/89.html
`

func TestTransformSQLScenario(t *testing.T) {
	tr := NewDeterministic(nil)

	t.Run("category root", func(t *testing.T) {
		out := tr.Transform(guidance.Document{RelPath: "CWE-89/INDEX.md", Text: sqlInput})

		assert.NotContains(t, out, "## References")
		assert.NotContains(t, out, "## Overview")
		assert.NotContains(t, out, "old advice")
		assert.Contains(t, out, "## Remediation Strategy\n\n"+
			"1. Use parameterized queries or prepared statements for all database access.\n"+
			"2. Avoid string concatenation for SQL; use ORM parameter binding.\n"+
			"3. Validate untrusted data with strict allowlists where feasible.\n"+
			"4. Apply least privilege to database accounts.\n")
		assert.Contains(t, out, "## Remediation Steps\n\n- Identify the sink")
		assert.NotContains(t, out, templates.PatternHeading)
	})

	t.Run("python scope", func(t *testing.T) {
		out := tr.Transform(guidance.Document{RelPath: "CWE-89/python/INDEX.md", Text: sqlInput})

		assert.Equal(t, 1, strings.Count(out, "### Minimal Safe Pattern"))
		assert.Contains(t, out, "```python\n# SECURE - parameterized query\ncursor.execute(")
		assert.NotContains(t, out, "## Remediation Steps")
		assert.True(t, strings.HasSuffix(out, "```\n"))
	})
}

func TestTransformKeepsTextAfterUnclosedPatternFence(t *testing.T) {
	text := "# CWE-89: SQL Injection\n\n## Secure Patterns\n\n### Minimal Safe Pattern\n\n```python\nold\n\n## Important Notes\nkeep me\n"
	out := NewDeterministic(nil).Transform(guidance.Document{RelPath: "CWE-89/python/INDEX.md", Text: text})

	assert.Contains(t, out, "```python\nold\n")
	assert.Contains(t, out, "## Important Notes\nkeep me\n")
	assert.Contains(t, out, "## Remediation Strategy\n")
}

func TestTransformUnmatchedUsesDefaultStrategy(t *testing.T) {
	out := NewDeterministic(nil).Transform(guidance.Document{
		RelPath: "CWE-999/INDEX.md",
		Text:    "# CWE-999: Something Unusual\n\nSome text.\n",
	})

	strategy := markdown.ExtractSection(out, templates.StrategyHeading)
	var steps []string
	for _, line := range strings.Split(strategy, "\n") {
		_, step, ok := strings.Cut(line, ". ")
		require.True(t, ok, line)
		steps = append(steps, step)
	}
	assert.Equal(t, templates.DefaultStrategy, steps)
}

func TestTransformIdempotent(t *testing.T) {
	tr := NewDeterministic(nil)
	for _, rel := range []string{"CWE-89/INDEX.md", "CWE-89/python/INDEX.md", "CWE-89/cobol/INDEX.md"} {
		t.Run(rel, func(t *testing.T) {
			once := tr.Transform(guidance.Document{RelPath: rel, Text: sqlInput})
			twice := tr.Transform(guidance.Document{RelPath: rel, Text: once})
			assert.Equal(t, once, twice)
		})
	}
}

func TestTransformRootNeverGainsPattern(t *testing.T) {
	tr := NewDeterministic(nil)

	out := tr.Transform(guidance.Document{RelPath: "CWE-79/INDEX.md", Text: "# CWE-79: Cross-Site Scripting\n\n## Secure Patterns\nEncode.\n"})
	assert.NotContains(t, out, "Minimal Safe Pattern")

	withPattern := "# CWE-79: XSS\n\n## Secure Patterns\n\n### Minimal Safe Pattern\n\n```js\nx\n```\n"
	out = tr.Transform(guidance.Document{RelPath: "CWE-79/INDEX.md", Text: withPattern})
	assert.Equal(t, 1, strings.Count(out, "Minimal Safe Pattern"))
}

func TestTransformReplacesExistingPattern(t *testing.T) {
	text := "# CWE-89: SQL Injection\n\n## Secure Patterns\n\n### Minimal Safe Pattern\n\n```python\nquery = \"SELECT \" + x\n```\n"
	out := NewDeterministic(nil).Transform(guidance.Document{RelPath: "CWE-89/python/INDEX.md", Text: text})

	assert.Equal(t, 1, strings.Count(out, "### Minimal Safe Pattern"))
	assert.NotContains(t, out, `"SELECT " + x`)
	assert.Contains(t, out, "cursor.execute(")
}

func TestTransformMissingAnchorSkipsSnippet(t *testing.T) {
	out := NewDeterministic(nil).Transform(guidance.Document{
		RelPath: "CWE-89/python/INDEX.md",
		Text:    "# CWE-89: SQL Injection\n\n## Remediation Strategy\nx\n",
	})
	assert.NotContains(t, out, "Minimal Safe Pattern")
	assert.Contains(t, out, "1. Use parameterized queries")
}

func TestNormalizeTrailing(t *testing.T) {
	assert.Equal(t, "a\n", NormalizeTrailing("a"))
	assert.Equal(t, "a\n", NormalizeTrailing("a\n\n \n"))
	assert.Equal(t, "\n", NormalizeTrailing(""))
}
