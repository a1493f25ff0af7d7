package assisted

import (
	"strings"

	"github.com/scan-io-git/llm-guidance/internal/markdown"
)

// diagnosticMarks lead progress lines the tool prints before its answer.
var diagnosticMarks = []string{"●", "└", "├", "│"}

// narrationPrefixes lead chatter lines surrounding the answer.
var narrationPrefixes = []string{"Now I", "I'll", "I will", "Let me"}

// ParseOutput extracts the markdown document from raw tool output. A wrapping code fence
// is removed, leading diagnostics and narration are skipped and trailing narration is
// dropped. The result must start with a markdown heading.
func ParseOutput(raw string) (string, error) {
	out := strings.TrimSpace(raw)
	if out == "" {
		return "", ErrEmptyOutput
	}

	lines := strings.Split(out, "\n")
	var content string
	if _, ok := markdown.FenceMarker(lines[0]); ok {
		content = unwrapFence(lines)
	} else {
		content = stripChatter(lines)
	}

	if content == "" {
		return "", ErrEmptyOutput
	}
	if !strings.HasPrefix(content, "#") {
		return "", ErrNoHeading
	}
	return content, nil
}

// unwrapFence drops the fence opened on the first line and its closer. The closer is the
// last bare fence, ignoring trailing narration, made of the opener's character and at
// least as long as the opener. When no closer leaves the inner code blocks balanced,
// everything after the opener is kept.
func unwrapFence(lines []string) string {
	marker, _ := markdown.FenceMarker(lines[0])
	lines = trimTrailingNarration(lines, 1)

	end := len(lines)
	for i := len(lines) - 1; i > 0; i-- {
		if closes(marker, lines[i]) {
			end = i
			break
		}
	}
	if !balanced(lines[1:end]) {
		end = len(lines)
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}

// closes reports whether line is a bare fence closing a block opened by marker.
func closes(marker, line string) bool {
	m, ok := markdown.FenceMarker(line)
	return ok && m[0] == marker[0] && len(m) >= len(marker) && strings.TrimSpace(line) == m
}

// balanced reports whether every fence opened in lines is closed again.
func balanced(lines []string) bool {
	var open string
	for _, line := range lines {
		m, ok := markdown.FenceMarker(line)
		switch {
		case !ok:
		case open == "":
			open = m
		case closes(open, line):
			open = ""
		}
	}
	return open == ""
}

func stripChatter(lines []string) string {
	start := 0
	for start < len(lines) {
		stripped := strings.TrimSpace(lines[start])
		if stripped != "" && !isDiagnostic(stripped) && !isNarration(stripped) {
			break
		}
		start++
	}
	if start == len(lines) {
		return ""
	}
	lines = trimTrailingNarration(lines, start+1)
	return strings.TrimSpace(strings.Join(lines[start:], "\n"))
}

// trimTrailingNarration drops trailing blank and narration lines, keeping at least keep lines.
func trimTrailingNarration(lines []string, keep int) []string {
	end := len(lines)
	for end > keep {
		stripped := strings.TrimSpace(lines[end-1])
		if stripped != "" && !isNarration(stripped) {
			break
		}
		end--
	}
	return lines[:end]
}

func isDiagnostic(line string) bool {
	for _, m := range diagnosticMarks {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

func isNarration(line string) bool {
	for _, p := range narrationPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
