package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectRepositoryMetadata(t *testing.T) {
	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	hash := commitFiles(t, wt, map[string]string{
		"guidance/CWE-89/INDEX.md": "# CWE-89: SQL Injection\n",
	}, "add guidance")

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.com/org/guidance.git"},
	})
	require.NoError(t, err)

	md, err := CollectRepositoryMetadata(filepath.Join(repoDir, "guidance"))
	require.NoError(t, err)

	require.NotNil(t, md.CommitHash)
	assert.Equal(t, hash.String(), *md.CommitHash)
	require.NotNil(t, md.BranchName)
	assert.Equal(t, "guidance", md.Subfolder)
	require.NotNil(t, md.RepositoryFullName)
	assert.Equal(t, "https://example.com/org/guidance", *md.RepositoryFullName)
	assert.Equal(t, *md.BranchName+"@"+hash.String()[:12], md.Revision())
}

func TestCollectRepositoryMetadataOutsideRepository(t *testing.T) {
	dir := t.TempDir()

	md, err := CollectRepositoryMetadata(dir)
	assert.Error(t, err)
	require.NotNil(t, md)
	assert.Empty(t, md.Revision())

	_, err = CollectRepositoryMetadata("")
	assert.Error(t, err)
}

func TestRevision(t *testing.T) {
	branch := "main"
	short := "abc"
	tests := []struct {
		name string
		md   *RepositoryMetadata
		want string
	}{
		{name: "nil", md: nil, want: ""},
		{name: "no commit", md: &RepositoryMetadata{BranchName: &branch}, want: ""},
		{name: "detached head", md: &RepositoryMetadata{CommitHash: &short}, want: "abc"},
		{name: "branch and commit", md: &RepositoryMetadata{BranchName: &branch, CommitHash: &short}, want: "main@abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.md.Revision())
		})
	}
}

func commitFiles(t *testing.T, wt *git.Worktree, files map[string]string, message string) plumbing.Hash {
	t.Helper()

	for path, content := range files {
		abs := filepath.Join(wt.Filesystem.Root(), path)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", abs, err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", abs, err)
		}
		if _, err := wt.Add(path); err != nil {
			t.Fatalf("add %s: %v", path, err)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}
