package pipeline

import (
	"path"
	"sort"
	"strings"
)

// Selection restricts which documents a run processes. Paths take precedence over
// Categories when both are set.
type Selection struct {
	Categories []string // normalised category identifiers, e.g. "CWE-78"
	Paths      []string // slash-separated path prefixes, e.g. "CWE-94/python"
	Force      bool     // reprocess documents whose output already exists
	DryRun     bool     // report what would happen without writing anything
}

// ParseSelection sorts positional arguments into path filters (anything containing a
// slash or backslash) and category selectors.
func ParseSelection(args []string) Selection {
	var sel Selection
	paths := make(map[string]struct{})
	cats := make(map[string]struct{})

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if strings.ContainsAny(arg, `/\`) {
			if p := NormalizePath(arg); p != "" {
				paths[p] = struct{}{}
			}
			continue
		}
		cats[NormalizeCategory(arg)] = struct{}{}
	}

	sel.Paths = sortedKeys(paths)
	sel.Categories = sortedKeys(cats)
	return sel
}

// NormalizeCategory maps "78", "CWE-78" and "cwe-78" to "CWE-78".
func NormalizeCategory(arg string) string {
	id := strings.TrimSpace(arg)
	if len(id) >= 4 && strings.EqualFold(id[:4], "CWE-") {
		id = id[4:]
	}
	return "CWE-" + id
}

// NormalizePath converts separators to slashes and trims surrounding slashes.
func NormalizePath(arg string) string {
	p := strings.ReplaceAll(arg, `\`, "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

// IsFiltered reports whether the selection restricts discovery at all.
func (s Selection) IsFiltered() bool {
	return len(s.Paths) > 0 || len(s.Categories) > 0
}

// Matches reports whether the document at rel is selected. Path filters match whole
// segments, so "CWE-9" selects "CWE-9/INDEX.md" but not "CWE-94/INDEX.md".
func (s Selection) Matches(rel string) bool {
	if len(s.Paths) > 0 {
		for _, p := range s.Paths {
			if rel == p || strings.HasPrefix(rel, p+"/") {
				return true
			}
		}
		return false
	}
	if len(s.Categories) > 0 {
		category, _, _ := strings.Cut(rel, "/")
		for _, c := range s.Categories {
			if category == c {
				return true
			}
		}
		return false
	}
	return true
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
