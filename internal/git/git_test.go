package git

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSignature = &object.Signature{Name: "Test User", Email: "test@example.com"}

// initRepo creates a real repository in a temp directory with an initial commit.
func initRepo(t *testing.T) (*gogit.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	addCommit(t, repo, dir, "init.txt", "initial commit")
	return repo, dir
}

// addCommit writes a file and commits it, returning the commit hash.
func addCommit(t *testing.T, repo *gogit.Repository, dir, filename, message string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(message+"\n"), 0o644))

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(filename)
	require.NoError(t, err)

	hash, err := worktree.Commit(message, &gogit.CommitOptions{Author: testSignature, Committer: testSignature})
	require.NoError(t, err)
	return hash.String()
}

// tagHead creates a lightweight tag at HEAD.
func tagHead(t *testing.T, repo *gogit.Repository, name string) {
	t.Helper()
	head, err := repo.Head()
	require.NoError(t, err)
	_, err = repo.CreateTag(name, head.Hash(), nil)
	require.NoError(t, err)
}

func TestOpen_DetectsDotGit(t *testing.T) {
	_, dir := initRepo(t)

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	repo, err := Open(nested)
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestCommitsSinceLastRelease_BoundedByTag(t *testing.T) {
	gitRepo, dir := initRepo(t)
	tagHead(t, gitRepo, "v1.0.0")
	addCommit(t, gitRepo, dir, "a.txt", "feat: add a")
	addCommit(t, gitRepo, dir, "b.txt", "fix: repair b")

	repo, err := Open(dir)
	require.NoError(t, err)

	records, lastTag, err := repo.CommitsSinceLastRelease(20)
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", lastTag)
	require.Len(t, records, 2)
	// Newest first.
	assert.Equal(t, "fix: repair b", records[0].Subject)
	assert.Equal(t, "feat: add a", records[1].Subject)
}

func TestCommitsSinceLastRelease_AnnotatedTag(t *testing.T) {
	gitRepo, dir := initRepo(t)
	head, err := gitRepo.Head()
	require.NoError(t, err)
	_, err = gitRepo.CreateTag("v2.1.0", head.Hash(), &gogit.CreateTagOptions{
		Tagger:  testSignature,
		Message: "release v2.1.0",
	})
	require.NoError(t, err)
	addCommit(t, gitRepo, dir, "c.txt", "chore: tidy")

	repo, err := Open(dir)
	require.NoError(t, err)

	records, lastTag, err := repo.CommitsSinceLastRelease(20)
	require.NoError(t, err)
	assert.Equal(t, "v2.1.0", lastTag)
	assert.Len(t, records, 1)
}

func TestCommitsSinceLastRelease_IgnoresNonReleaseTags(t *testing.T) {
	gitRepo, dir := initRepo(t)
	tagHead(t, gitRepo, "nightly-2024-01-01")
	tagHead(t, gitRepo, "v1.2")
	addCommit(t, gitRepo, dir, "d.txt", "feat: d")

	repo, err := Open(dir)
	require.NoError(t, err)

	records, lastTag, err := repo.CommitsSinceLastRelease(20)
	require.NoError(t, err)
	assert.Empty(t, lastTag)
	assert.Len(t, records, 2) // both commits, no bounding tag
}

func TestCommitsSinceLastRelease_FallbackLimit(t *testing.T) {
	gitRepo, dir := initRepo(t)
	addCommit(t, gitRepo, dir, "e.txt", "one")
	addCommit(t, gitRepo, dir, "f.txt", "two")
	addCommit(t, gitRepo, dir, "g.txt", "three")

	repo, err := Open(dir)
	require.NoError(t, err)

	records, lastTag, err := repo.CommitsSinceLastRelease(2)
	require.NoError(t, err)
	assert.Empty(t, lastTag)
	require.Len(t, records, 2)
	assert.Equal(t, "three", records[0].Subject)
	assert.Equal(t, "two", records[1].Subject)
}

func TestCommitsSinceLastRelease_NothingSinceTag(t *testing.T) {
	gitRepo, dir := initRepo(t)
	tagHead(t, gitRepo, "v0.1.0")

	repo, err := Open(dir)
	require.NoError(t, err)

	records, lastTag, err := repo.CommitsSinceLastRelease(20)
	require.NoError(t, err)
	assert.Equal(t, "v0.1.0", lastTag)
	assert.Empty(t, records)
}

func TestCommitsSinceLastRelease_SubjectBodySplit(t *testing.T) {
	gitRepo, dir := initRepo(t)
	tagHead(t, gitRepo, "v1.0.0")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "h.txt"), []byte("h\n"), 0o644))
	worktree, err := gitRepo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("h.txt")
	require.NoError(t, err)
	_, err = worktree.Commit("feat: add h\n\nLonger explanation\nacross two lines.\n",
		&gogit.CommitOptions{Author: testSignature, Committer: testSignature})
	require.NoError(t, err)

	repo, err := Open(dir)
	require.NoError(t, err)

	records, _, err := repo.CommitsSinceLastRelease(20)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "feat: add h", records[0].Subject)
	assert.Equal(t, "Longer explanation\nacross two lines.", records[0].Body)
	assert.NotEmpty(t, records[0].Hash)
}

func TestCurrentBranch(t *testing.T) {
	_, dir := initRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.NotEmpty(t, branch) // master or main depending on defaults
}

func TestCommitFile(t *testing.T) {
	gitRepo, dir := initRepo(t)

	// CommitFile relies on repository config for the signature.
	cfg, err := gitRepo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test User"
	cfg.User.Email = "test@example.com"
	require.NoError(t, gitRepo.SetConfig(cfg))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte("# Changelog\n"), 0o644))

	repo, err := Open(dir)
	require.NoError(t, err)

	hash, err := repo.CommitFile("CHANGELOG.md", "docs: update changelog for v1.1.0")
	require.NoError(t, err)
	assert.Len(t, hash, 40)

	head, err := gitRepo.Head()
	require.NoError(t, err)
	commit, err := gitRepo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "docs: update changelog for v1.1.0", commit.Message)
}

func TestIsSSHURL(t *testing.T) {
	tests := map[string]struct {
		url      string
		expected bool
	}{
		"scp style":  {"git@github.com:owner/repo.git", true},
		"ssh scheme": {"ssh://git@github.com/owner/repo.git", true},
		"git+ssh":    {"git+ssh://git@github.com/owner/repo.git", true},
		"https":      {"https://github.com/owner/repo.git", false},
		"http":       {"http://github.com/owner/repo.git", false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isSSHURL(tc.url))
		})
	}
}
