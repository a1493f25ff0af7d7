package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scan-io-git/llm-guidance/pkg/shared/files"
)

// ErrSourceMissing is returned when the source tree does not exist.
var ErrSourceMissing = errors.New("guidance source directory does not exist")

// Discover returns the slash-separated paths, relative to root, of every file named
// indexFile at least one directory deep. Directories named in excluded are never
// entered. The result is sorted.
func Discover(root, indexFile string, excluded []string) ([]string, error) {
	if err := files.ValidateDir(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, root)
		}
		return nil, fmt.Errorf("invalid source directory: %w", err)
	}

	skip := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		skip[name] = struct{}{}
	}

	var found []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if _, ok := skip[d.Name()]; ok && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != indexFile {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.Contains(rel, "/") {
			return nil
		}
		found = append(found, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}
