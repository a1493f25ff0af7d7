package template

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"
)

// Template names.
const (
	PromptTemplate     = "prompt.tmpl"
	TranscriptTemplate = "transcript.tmpl"
	SkippedTemplate    = "skipped.tmpl"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// PromptData feeds PromptTemplate.
type PromptData struct {
	Title          string
	Overview       string
	Strategy       string
	Steps          string
	LanguageFile   bool
	OverviewBudget int
	StrategyBudget int
	StepsBudget    int
}

// TranscriptData feeds TranscriptTemplate.
type TranscriptData struct {
	Command  []string
	ExitCode int
	Prompt   string
	Stdout   string
	Stderr   string
	Error    string
	RunID    string
	Revision string
	Started  time.Time
}

// SkippedData feeds SkippedTemplate.
type SkippedData struct {
	Command      string
	Binary       string
	BinaryPath   string
	PathExists   bool
	PathAbsolute bool
	LookPath     string
	PathEnv      string
}

// truncate returns the first n runes of s.
// helper function for text template
func truncate(n int, s string) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// formatDateTime formats t in UTC with microsecond precision.
// helper function for text template
func formatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

// displayArgs renders argv the way a shell user would type it.
// helper function for text template
func displayArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n'\"\\$") {
			quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
			continue
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}

// Renderer executes the embedded prompt and transcript templates.
type Renderer struct {
	tmpl *template.Template
}

// NewTemplate parses the embedded templates.
func NewTemplate() (*Renderer, error) {
	tmpl, err := template.New("guidance").
		Funcs(template.FuncMap{
			"truncate":       truncate,
			"formatDateTime": formatDateTime,
			"displayArgs":    displayArgs,
		}).
		ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNewTemplate is like NewTemplate but panics on error. The templates are embedded,
// so a failure is a build defect.
func MustNewTemplate() *Renderer {
	r, err := NewTemplate()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template with data.
func (r *Renderer) Render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := r.tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return sb.String(), nil
}
