package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

const sample = `# CWE-89: SQL Injection

Intro paragraph.

## Overview
Queries built from strings.

### Details
More.

## Remediation Strategy
old step

## References
- link
`

func TestParse(t *testing.T) {
	doc := Parse(sample)

	want := &Document{
		Preamble: []string{"# CWE-89: SQL Injection", "", "Intro paragraph.", ""},
		Sections: []Section{
			{Level: 2, Title: "Overview", Lines: []string{"## Overview", "Queries built from strings.", ""}},
			{Level: 3, Title: "Details", Lines: []string{"### Details", "More.", ""}},
			{Level: 2, Title: "Remediation Strategy", Lines: []string{"## Remediation Strategy", "old step", ""}},
			{Level: 2, Title: "References", Lines: []string{"## References", "- link", ""}},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, sample, doc.String())
}

func TestParseIgnoresHeadingsInFences(t *testing.T) {
	text := "# T\n\n## Example\n```python\n## not a heading\n~~~\n```\n\n~~~~\n## also not\n~~~~\n## Real\nbody"
	doc := Parse(text)

	var titles []string
	for _, s := range doc.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Example", "Real"}, titles)
	assert.Equal(t, text, doc.String())
}

func TestParseUnclosedFence(t *testing.T) {
	text := "# T\n\n## Example\n```python\nold\n\n## Important Notes\nkeep me"
	doc := Parse(text)

	var titles []string
	for _, s := range doc.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Example", "Important Notes"}, titles)
	assert.Equal(t, text, doc.String())
}

func TestStripSections(t *testing.T) {
	got := StripSections(sample, []string{"overview", "References"})
	want := "# CWE-89: SQL Injection\n\nIntro paragraph.\n\n## Remediation Strategy\nold step\n"
	assert.Equal(t, want, got)
}

func TestReplaceSection(t *testing.T) {
	block := "## Remediation Strategy\n\n1. new\n"

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "existing section",
			text: "# T\n\n## Remediation Strategy\nold\n\n## Next\nkeep\n",
			want: "# T\n\n## Remediation Strategy\n\n1. new\n\n## Next\nkeep\n",
		},
		{
			name: "nested subsections are replaced too",
			text: "# T\n\n## Remediation Strategy\nold\n### Sub\nx\n## Next\n",
			want: "# T\n\n## Remediation Strategy\n\n1. new\n\n## Next\n",
		},
		{
			name: "absent section is appended",
			text: "# T\n\n## Other\nx\n",
			want: "# T\n\n## Other\nx\n\n## Remediation Strategy\n\n1. new\n",
		},
		{
			name: "duplicates collapse to the first position",
			text: "# T\n\n## Remediation Strategy\na\n\n## Middle\nm\n\n## remediation strategy\nb\n",
			want: "# T\n\n## Remediation Strategy\n\n1. new\n\n## Middle\nm\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReplaceSection(tt.text, "Remediation Strategy", block)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ReplaceSection(got, "Remediation Strategy", block), "replace must be idempotent")
		})
	}
}

func TestInsertIntoSection(t *testing.T) {
	snippet := "### Minimal Safe Pattern\n\n```python\nsafe()\n```\n"

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "appended to anchor",
			text: "# T\n\n## Secure Patterns\nUse binds.\n\n## Next\n",
			want: "# T\n\n## Secure Patterns\nUse binds.\n\n### Minimal Safe Pattern\n\n```python\nsafe()\n```\n\n## Next\n",
		},
		{
			name: "appended after nested subsections of anchor",
			text: "# T\n\n## Secure Patterns\nx\n### Other\ny\n## Next\n",
			want: "# T\n\n## Secure Patterns\nx\n### Other\ny\n\n### Minimal Safe Pattern\n\n```python\nsafe()\n```\n\n## Next\n",
		},
		{
			name: "existing pattern fence replaced",
			text: "# T\n\n## Secure Patterns\n\n### Minimal Safe Pattern\n\n```python\nunsafe()\n```\n\n## Next\n",
			want: "# T\n\n## Secure Patterns\n\n### Minimal Safe Pattern\n\n```python\nsafe()\n```\n\n## Next\n",
		},
		{
			name: "duplicate patterns removed",
			text: "# T\n\n### Minimal Safe Pattern\n```\na\n```\n\n## Secure Patterns\n\n### Minimal Safe Pattern\n```\nb\n```\n",
			want: "# T\n\n### Minimal Safe Pattern\n\n```python\nsafe()\n```\n\n## Secure Patterns\n",
		},
		{
			name: "unclosed fence in existing pattern leaves text unchanged",
			text: "# T\n\n## Secure Patterns\n\n### Minimal Safe Pattern\n\n```python\nold\n\n## Important Notes\nkeep me\n",
			want: "# T\n\n## Secure Patterns\n\n### Minimal Safe Pattern\n\n```python\nold\n\n## Important Notes\nkeep me\n",
		},
		{
			name: "no anchor leaves text unchanged",
			text: "# T\n\n## Other\nx\n",
			want: "# T\n\n## Other\nx\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InsertIntoSection(tt.text, "Secure Patterns", snippet)
			assert.Equal(t, tt.want, got)

			again := InsertIntoSection(got, "Secure Patterns", snippet)
			assert.Equal(t, got, again, "insert must be idempotent")
			assert.LessOrEqual(t, strings.Count(again, "### Minimal Safe Pattern"), 1)
		})
	}
}

func TestExtractSection(t *testing.T) {
	assert.Equal(t, "Queries built from strings.\n\n### Details\nMore.", ExtractSection(sample, "overview"))
	assert.Equal(t, "old step", ExtractSection(sample, "Strategy"))
	assert.Empty(t, ExtractSection(sample, "Details"), "only level-2 sections are extracted")
	assert.Empty(t, ExtractSection(sample, "Missing"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "CWE-89: SQL Injection", Title(sample))
	assert.Equal(t, "Plain", Title("Plain\n## x"))
	assert.Empty(t, Title(""))
}
