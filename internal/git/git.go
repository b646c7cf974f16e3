// Package git provides the repository operations relcut needs: reading the
// commit history since the last release tag, committing the updated
// changelog, and pushing the branch with tags. It uses the go-git library
// throughout; no git CLI is required.
package git

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// releaseTagPattern matches release tags of the form v<major>.<minor>.<patch>.
var releaseTagPattern = regexp.MustCompile(`^v\d+\.\d+\.\d+$`)

// debugLogger logs debug messages when debug mode is enabled.
// By default it's a no-op. Set it via SetDebugLogger to enable output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// CommitRecord is one commit in the history since the last release.
// Subject is the first line of the commit message; Body is the remainder
// and may be empty.
type CommitRecord struct {
	Hash    string
	Subject string
	Body    string
}

// Repo wraps an opened git repository.
type Repo struct {
	repo *git.Repository
}

// Open opens the git repository at the specified path or, if path is empty,
// the current working directory. DetectDotGit traverses up the directory
// tree to find the repository root.
func Open(path string) (*Repo, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return &Repo{repo: repo}, nil
}

// CurrentBranch returns the name of the checked-out branch.
// A detached HEAD is an error: a release needs a branch to push.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached; check out a branch before releasing")
	}
	return head.Name().Short(), nil
}

// CommitsSinceLastRelease walks the log from HEAD and collects commits until
// it reaches the first commit carrying a v<major>.<minor>.<patch> tag.
// It returns the records (newest first) and the tag name that bounded the
// walk. If no release tag is reachable, the most recent fallbackLimit
// commits are returned with an empty tag name.
func (r *Repo) CommitsSinceLastRelease(fallbackLimit int) ([]CommitRecord, string, error) {
	tagged, err := r.releaseTagTargets()
	if err != nil {
		return nil, "", err
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, "", fmt.Errorf("reading commit log: %w", err)
	}
	defer iter.Close()

	var records []CommitRecord
	var lastTag string
	err = iter.ForEach(func(c *object.Commit) error {
		if tag, ok := tagged[c.Hash]; ok {
			lastTag = tag
			return storer.ErrStop
		}
		records = append(records, newRecord(c))
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("walking commit log: %w", err)
	}

	if lastTag == "" && fallbackLimit > 0 && len(records) > fallbackLimit {
		records = records[:fallbackLimit]
	}

	logDebug("[git] CommitsSinceLastRelease: %d commits since %q", len(records), lastTag)
	return records, lastTag, nil
}

// releaseTagTargets maps commit hashes to the release tag pointing at them.
// Annotated tags are resolved to their target commits.
func (r *Repo) releaseTagTargets() (map[plumbing.Hash]string, error) {
	tags, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	targets := make(map[plumbing.Hash]string)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !releaseTagPattern.MatchString(name) {
			return nil
		}

		hash := ref.Hash()
		if tagObj, tagErr := r.repo.TagObject(hash); tagErr == nil {
			hash = tagObj.Target
		}
		targets[hash] = name
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return targets, nil
}

// newRecord splits a commit message into subject and body.
func newRecord(c *object.Commit) CommitRecord {
	subject, body, _ := strings.Cut(c.Message, "\n")
	return CommitRecord{
		Hash:    c.Hash.String(),
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
	}
}

// CommitFile stages a single file and commits it with the given message.
// Returns the new commit hash.
func (r *Repo) CommitFile(path, message string) (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	if _, err := worktree.Add(path); err != nil {
		return "", fmt.Errorf("staging %s: %w", path, err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("committing %s: %w", path, err)
	}

	logDebug("[git] CommitFile: committed %s as %s", path, hash)
	return hash.String(), nil
}
