// Package audit records what happened to each processed document: one review log line
// per document and a raw transcript per assisted-generation attempt.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scan-io-git/llm-guidance/internal/guidance"
	"github.com/scan-io-git/llm-guidance/pkg/shared/files"
)

const (
	reviewLogHeader = "# LLM Review Log\n\n"
	timestampLayout = "2006-01-02T15:04:05.000000Z"
)

// ReviewLog is an append-only markdown list of processed documents.
type ReviewLog struct {
	path string
	now  func() time.Time
}

// NewReviewLog returns a ReviewLog writing to path.
func NewReviewLog(path string) *ReviewLog {
	return &ReviewLog{path: path, now: time.Now}
}

// Path returns the log file location.
func (l *ReviewLog) Path() string {
	return l.path
}

// FormatEntry renders one log line without the trailing newline.
func FormatEntry(ts time.Time, relPath string, mode guidance.Mode) string {
	return fmt.Sprintf("- %s %s (%s)", ts.UTC().Format(timestampLayout), relPath, mode)
}

// Append adds an entry for relPath. The header is written when the log is created.
func (l *ReviewLog) Append(relPath string, mode guidance.Mode) error {
	if err := files.CreateFolderIfNotExists(filepath.Dir(l.path)); err != nil {
		return err
	}

	prefix, err := l.prefix()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open review log %q: %w", l.path, err)
	}
	defer f.Close()

	entry := prefix + FormatEntry(l.now(), relPath, mode) + "\n"
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to append to review log %q: %w", l.path, err)
	}
	return nil
}

// prefix returns what must precede the next entry: the header for a new log, a newline
// when the existing file does not end with one, otherwise nothing.
func (l *ReviewLog) prefix() (string, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return reviewLogHeader, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open review log %q: %w", l.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat review log %q: %w", l.path, err)
	}
	if info.Size() == 0 {
		return reviewLogHeader, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return "", fmt.Errorf("failed to read review log %q: %w", l.path, err)
	}
	if last[0] != '\n' {
		return "\n", nil
	}
	return "", nil
}
