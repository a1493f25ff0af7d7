package audit

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scan-io-git/llm-guidance/pkg/shared/files"
)

// Transcripts stores one raw interaction transcript per document, overwritten on re-runs.
type Transcripts struct {
	dir string
}

// NewTranscripts returns a store rooted at dir.
func NewTranscripts(dir string) *Transcripts {
	return &Transcripts{dir: dir}
}

// TranscriptName flattens a relative document path into a file name,
// e.g. "CWE-89/python/INDEX.md" becomes "CWE-89__python__INDEX.md.txt".
func TranscriptName(relPath string) string {
	return strings.ReplaceAll(filepath.ToSlash(relPath), "/", "__") + ".txt"
}

// Path returns where the transcript for relPath is stored.
func (t *Transcripts) Path(relPath string) string {
	return filepath.Join(t.dir, TranscriptName(relPath))
}

// Write replaces the transcript for relPath with body.
func (t *Transcripts) Write(relPath, body string) error {
	target, err := files.EnsureWithinRoot(t.dir, t.Path(relPath))
	if err != nil {
		return fmt.Errorf("invalid transcript path for %q: %w", relPath, err)
	}
	return files.WriteFile(target, []byte(body))
}
