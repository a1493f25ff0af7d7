// Package ledger tracks which guidance documents have been processed across runs.
//
// The ledger is a path -> done mapping serialised as a markdown checkbox list under a
// "## Progress" heading:
//
//	# LLM Guidance Spec
//
//	<!-- ledger-format: 2 -->
//
//	## Progress
//
//	- [ ] CWE-89/INDEX.md
//	- [x] CWE-89/python/INDEX.md
//
// Entries are only ever added, and an entry never goes back from done to pending.
// Files without a format marker are read as version 1, which shares the same checkbox
// grammar. Paths are compared whole, never by prefix.
package ledger

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/scan-io-git/llm-guidance/pkg/shared/files"
)

// FormatVersion is the serialisation version written by Save.
const FormatVersion = 2

const (
	progressHeading = "## Progress"
	defaultPreamble = "# LLM Guidance Spec"
	pendingMark     = "- [ ] "
	doneMark        = "- [x] "
)

// ErrUnsupportedVersion is returned for ledgers written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported ledger format version")

var versionRe = regexp.MustCompile(`^<!--\s*ledger-format:\s*(\d+)\s*-->$`)

// Entry is one tracked document.
type Entry struct {
	Path string
	Done bool
}

// Ledger is the in-memory progress state.
type Ledger struct {
	preamble []string
	trailer  []string
	order    []string
	done     map[string]bool
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		preamble: []string{defaultPreamble},
		done:     make(map[string]bool),
	}
}

// Load reads the ledger at path. A missing file yields an empty ledger.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %q: %w", path, err)
	}
	l, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger %q: %w", path, err)
	}
	return l, nil
}

// Parse decodes a serialised ledger.
func Parse(text string) (*Ledger, error) {
	l := &Ledger{done: make(map[string]bool)}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == progressHeading {
			break
		}
		if m := versionRe.FindStringSubmatch(line); m != nil {
			v, err := strconv.Atoi(m[1])
			if err != nil || v > FormatVersion {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, m[1])
			}
			continue
		}
		l.preamble = append(l.preamble, lines[i])
	}
	l.preamble = trimBlank(l.preamble)
	if len(l.preamble) == 0 {
		l.preamble = []string{defaultPreamble}
	}

	for i++; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "#") {
			l.trailer = trimBlank(lines[i:])
			break
		}
		path, done, ok := parseEntry(line)
		if !ok {
			continue
		}
		if _, seen := l.done[path]; !seen {
			l.order = append(l.order, path)
		}
		l.done[path] = l.done[path] || done
	}
	return l, nil
}

func parseEntry(line string) (string, bool, bool) {
	if len(line) < len(pendingMark) || !strings.HasPrefix(line, "- [") || line[4:6] != "] " {
		return "", false, false
	}
	var done bool
	switch line[3] {
	case ' ':
	case 'x', 'X':
		done = true
	default:
		return "", false, false
	}
	path := strings.TrimSpace(line[len(pendingMark):])
	if path == "" {
		return "", false, false
	}
	return path, done, true
}

// Register adds every path not yet tracked as pending, in the given order, and returns
// the newly added paths. Existing entries are left untouched.
func (l *Ledger) Register(paths []string) []string {
	var added []string
	for _, p := range paths {
		if _, ok := l.done[p]; ok {
			continue
		}
		l.done[p] = false
		l.order = append(l.order, p)
		added = append(added, p)
	}
	return added
}

// MarkDone flags path as processed, registering it first if needed.
func (l *Ledger) MarkDone(path string) {
	if _, ok := l.done[path]; !ok {
		l.order = append(l.order, path)
	}
	l.done[path] = true
}

// State reports whether path is done and whether it is tracked at all.
func (l *Ledger) State(path string) (done bool, tracked bool) {
	done, tracked = l.done[path]
	return done, tracked
}

// Entries returns all entries in ledger order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, p := range l.order {
		out = append(out, Entry{Path: p, Done: l.done[p]})
	}
	return out
}

// Len returns the number of tracked documents.
func (l *Ledger) Len() int {
	return len(l.order)
}

// String serialises the ledger in the current format version.
func (l *Ledger) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(l.preamble, "\n"))
	fmt.Fprintf(&sb, "\n\n<!-- ledger-format: %d -->\n\n%s\n\n", FormatVersion, progressHeading)
	for _, e := range l.Entries() {
		if e.Done {
			sb.WriteString(doneMark)
		} else {
			sb.WriteString(pendingMark)
		}
		sb.WriteString(e.Path)
		sb.WriteByte('\n')
	}
	if len(l.trailer) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(l.trailer, "\n"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Save writes the ledger to path atomically.
func (l *Ledger) Save(path string) error {
	if err := files.WriteFileAtomic(path, []byte(l.String())); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
