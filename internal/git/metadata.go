// Package git reads revision metadata of the guidance corpus checkout.
package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RepositoryMetadata describes the git work tree containing a source folder.
type RepositoryMetadata struct {
	BranchName         *string `json:"branch,omitempty"`
	CommitHash         *string `json:"commit,omitempty"`
	RepositoryFullName *string `json:"repository,omitempty"`
	Subfolder          string  `json:"subfolder,omitempty"`
	RepoRootFolder     string  `json:"-"`
}

// CollectRepositoryMetadata function collects repository metadata
// that includes branch name, commit hash, repository full name, subfolder and repository root folder
func CollectRepositoryMetadata(sourceFolder string) (*RepositoryMetadata, error) {
	if sourceFolder == "" {
		return &RepositoryMetadata{}, fmt.Errorf("source folder is not set")
	}

	if absSource, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = absSource
	}

	md := &RepositoryMetadata{
		RepoRootFolder: filepath.Clean(sourceFolder),
	}

	repoRootFolder, err := findGitRepositoryPath(sourceFolder)
	if err != nil {
		return md, err
	}

	md.RepoRootFolder = filepath.Clean(repoRootFolder)

	repo, err := git.PlainOpen(repoRootFolder)
	if err != nil {
		return md, fmt.Errorf("failed to open repository: %w", err)
	}

	if rel, err := filepath.Rel(repoRootFolder, sourceFolder); err == nil && rel != "." {
		md.Subfolder = filepath.ToSlash(rel)
	}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			branchName := head.Name().Short()
			md.BranchName = &branchName
		}

		hash := head.Hash().String()
		md.CommitHash = &hash
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			repositoryFullName := strings.TrimSuffix(cfg.URLs[0], ".git")
			md.RepositoryFullName = &repositoryFullName
		}
	}

	return md, nil
}

// Revision returns a short "branch@commit" label, or "" when nothing is known.
func (md *RepositoryMetadata) Revision() string {
	if md == nil || md.CommitHash == nil {
		return ""
	}
	commit := *md.CommitHash
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if md.BranchName == nil {
		return commit
	}
	return *md.BranchName + "@" + commit
}
