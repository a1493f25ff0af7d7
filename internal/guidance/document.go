// Package guidance defines the guidance document model shared by the transformers.
package guidance

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/scan-io-git/llm-guidance/internal/markdown"
)

// Document is one guidance file. RelPath is slash-separated and relative to the source
// root, e.g. "CWE-89/INDEX.md" or "CWE-89/python/INDEX.md".
type Document struct {
	RelPath string
	Text    string
}

// Load reads the document at rel below root.
func Load(root, rel string) (Document, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return Document{}, fmt.Errorf("failed to read guidance document %q: %w", rel, err)
	}
	return Document{RelPath: rel, Text: string(data)}, nil
}

// Parts returns the path segments of RelPath.
func (d Document) Parts() []string {
	return strings.Split(path.Clean(d.RelPath), "/")
}

// Title returns the document title taken from its first line.
func (d Document) Title() string {
	return markdown.Title(d.Text)
}

// CategoryID returns the category directory, e.g. "CWE-89".
func (d Document) CategoryID() string {
	return d.Parts()[0]
}

// IsCategoryRoot reports whether the document sits directly under its category directory.
func (d Document) IsCategoryRoot() bool {
	return len(d.Parts()) == 2
}

// Scope returns the target-language segment for documents nested below a category.
func (d Document) Scope() (string, bool) {
	parts := d.Parts()
	if len(parts) < 3 {
		return "", false
	}
	return parts[1], true
}
