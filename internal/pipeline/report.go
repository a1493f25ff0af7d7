package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/scan-io-git/llm-guidance/internal/git"
	"github.com/scan-io-git/llm-guidance/internal/guidance"
	"github.com/scan-io-git/llm-guidance/pkg/shared/files"
)

// Document statuses.
const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusPlanned   = "planned"
)

// DefaultReportName is used when the report path names a folder.
const DefaultReportName = "llm-guidance-report.json"

// DocumentResult records what happened to one document.
type DocumentResult struct {
	Path   string        `json:"path"`
	Status string        `json:"status"`
	Mode   guidance.Mode `json:"mode,omitempty"`
}

// Report summarises a run.
type Report struct {
	RunID     string                  `json:"run_id"`
	Started   time.Time               `json:"started"`
	Finished  time.Time               `json:"finished"`
	Source    string                  `json:"source"`
	Output    string                  `json:"output"`
	Revision  *git.RepositoryMetadata `json:"revision,omitempty"`
	DryRun    bool                    `json:"dry_run,omitempty"`
	Processed int                     `json:"processed"`
	Skipped   int                     `json:"skipped"`
	Planned   int                     `json:"planned,omitempty"`
	Documents []DocumentResult        `json:"documents"`
}

func (r *Report) add(res DocumentResult) {
	r.Documents = append(r.Documents, res)
	switch res.Status {
	case StatusProcessed:
		r.Processed++
	case StatusSkipped:
		r.Skipped++
	case StatusPlanned:
		r.Planned++
	}
}

// WriteReport stores r as indented JSON. A path without an extension, or an existing
// directory, receives DefaultReportName inside it. A leading "~/" is expanded. The written
// file path is returned.
func WriteReport(r *Report, path string) (string, error) {
	target, folder, err := files.DetermineFileFullPath(path, DefaultReportName)
	if err != nil {
		return "", err
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := files.WriteJsonFile(target, data); err != nil {
		return "", err
	}
	return filepath.Clean(target), nil
}
