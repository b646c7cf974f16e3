// Package release orchestrates one release run: collect commits, obtain
// advice, confirm the bump, compose and edit the changelog entry, then
// either preview the plan or persist it.
//
// The run is a finite sequence of explicit states, none revisited. Every
// terminal condition is a state transition, which keeps the abort and
// preview paths enumerable and testable instead of buried in conditionals.
package release

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/relcut/relcut/internal/advisor"
	"github.com/relcut/relcut/internal/changelog"
	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/editor"
	relerrors "github.com/relcut/relcut/internal/errors"
	"github.com/relcut/relcut/internal/git"
	"github.com/relcut/relcut/internal/semver"
)

// ChangelogCommitMessage is the message for the changelog commit,
// parameterized by the release tag.
const ChangelogCommitMessage = "docs: changelog for %s"

// BumpCommitMessage is handed to npm; npm substitutes %s with the version.
const BumpCommitMessage = "chore(release): %s"

// HistorySource is the version-control collaborator.
type HistorySource interface {
	CurrentBranch() (string, error)
	CommitsSinceLastRelease(fallbackLimit int) ([]git.CommitRecord, string, error)
	CommitFile(path, message string) (string, error)
	PushWithTags(ctx context.Context, remote, branch string) error
}

// Advisor is the release-advice collaborator.
type Advisor interface {
	Suggest(ctx context.Context, commits []git.CommitRecord) (*advisor.Advice, error)
}

// PackageManager is the manifest/bump collaborator.
type PackageManager interface {
	CurrentVersion() (semver.Version, error)
	Bump(ctx context.Context, kind semver.Kind, message string) error
}

// EditorSession is one scoped temp-file editing session.
type EditorSession interface {
	Path() string
	Edit() (string, error)
	Close() error
}

// Runner wires the collaborators for one release run.
type Runner struct {
	Config  *config.Configuration
	Repo    HistorySource
	Advisor Advisor
	Pkg     PackageManager

	// EditorProgram is the resolved editor executable.
	EditorProgram string
	// NewEditorSession creates the scoped entry file. Defaults to the real
	// editor package; tests substitute a fake.
	NewEditorSession func(program, initial string) (EditorSession, error)

	// DryRun previews the plan without mutating any persistent state.
	DryRun bool
	// Interactive enables the spinner during the advisor round trip.
	Interactive bool

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// step is the orchestrator state. States are visited in order, none twice.
type step int

const (
	stepCollectCommits step = iota
	stepObtainAdvice
	stepConfirmBump
	stepComposeEntry
	stepEditEntry
	stepPreview
	stepPersist
	stepDone
)

// runState carries the data accumulated across steps.
type runState struct {
	step step

	commits []git.CommitRecord
	lastTag string

	advice *advisor.Advice
	kind   semver.Kind

	current semver.Version
	next    semver.Version

	entryLines []string
	session    EditorSession
}

// Run executes the state machine to its terminal state. The entry file is
// removed on every exit path; a removal failure never masks the run error.
func (r *Runner) Run(ctx context.Context) error {
	state := &runState{step: stepCollectCommits}
	defer func() {
		if state.session != nil {
			state.session.Close()
		}
	}()

	for state.step != stepDone {
		if err := r.advance(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// advance executes the current step and moves the state forward.
func (r *Runner) advance(ctx context.Context, state *runState) error {
	switch state.step {
	case stepCollectCommits:
		return r.collectCommits(state)
	case stepObtainAdvice:
		return r.obtainAdvice(ctx, state)
	case stepConfirmBump:
		return r.confirmBump(state)
	case stepComposeEntry:
		return r.composeEntry(state)
	case stepEditEntry:
		return r.editEntry(state)
	case stepPreview:
		return r.preview(state)
	case stepPersist:
		return r.persist(ctx, state)
	default:
		return relerrors.NewExecutionError(fmt.Sprintf("invalid orchestrator state %d", state.step))
	}
}

func (r *Runner) collectCommits(state *runState) error {
	commits, lastTag, err := r.Repo.CommitsSinceLastRelease(r.Config.FallbackCommitCount)
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "reading commit history")
	}
	if len(commits) == 0 {
		return relerrors.NewExecutionError("no commits found since the last release")
	}

	if lastTag != "" {
		fmt.Fprintf(r.Out, "Found %d commit(s) since %s.\n", len(commits), lastTag)
	} else {
		fmt.Fprintf(r.Out, "No release tag found; using the last %d commit(s).\n", len(commits))
	}

	state.commits = commits
	state.lastTag = lastTag
	state.step = stepObtainAdvice
	return nil
}

func (r *Runner) obtainAdvice(ctx context.Context, state *runState) error {
	var advice *advisor.Advice
	err := r.withSpinner("Consulting release advisor...", func() error {
		var suggestErr error
		advice, suggestErr = r.Advisor.Suggest(ctx, state.commits)
		return suggestErr
	})
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Upstream, "obtaining release advice")
	}

	state.advice = advice
	state.step = stepConfirmBump
	return nil
}

func (r *Runner) confirmBump(state *runState) error {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(r.Out, "\nSuggested bump: %s\n", bold(state.advice.Bump.String()))
	fmt.Fprintf(r.Out, "Reasoning: %s\n\nNotes:\n", state.advice.Reasoning)
	for _, note := range state.advice.Notes {
		fmt.Fprintf(r.Out, "  %s %s\n", cyan("-"), note)
	}

	if r.Config.SkipConfirmations {
		state.kind = state.advice.Bump
		state.step = stepComposeEntry
		return nil
	}

	fmt.Fprintf(r.Out, "\nAccept %s bump? [Y/n/major/minor/patch]: ", state.advice.Bump)
	kind, accepted := parseConfirmation(readLine(r.In), state.advice.Bump)
	if !accepted {
		return relerrors.NewUserAbort("release rejected at bump confirmation")
	}
	if kind != state.advice.Bump {
		fmt.Fprintf(r.Out, "Overriding suggested bump: %s\n", kind)
	}

	state.kind = kind
	state.step = stepComposeEntry
	return nil
}

func (r *Runner) composeEntry(state *runState) error {
	current, err := r.Pkg.CurrentVersion()
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Structure, "reading current version")
	}
	state.current = current
	state.next = current.Bump(state.kind)

	entry := changelog.Entry{Version: state.next.String(), Notes: state.advice.Notes}
	session, err := r.newSession(entry.Render())
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "preparing entry for editing")
	}
	state.session = session
	state.entryLines = entry.Lines()

	if r.DryRun {
		state.step = stepPreview
	} else {
		state.step = stepEditEntry
	}
	return nil
}

func (r *Runner) editEntry(state *runState) error {
	fmt.Fprintf(r.Out, "\nOpening %s to edit the changelog entry...\n", r.EditorProgram)

	content, err := state.session.Edit()
	if errors.Is(err, editor.ErrDiscarded) {
		return relerrors.NewUserAbort("changelog entry discarded during editing")
	}
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "editing changelog entry")
	}
	if strings.TrimSpace(content) == "" {
		return relerrors.NewUserAbort("changelog entry emptied during editing")
	}

	state.entryLines = changelog.ParseLines(content)
	state.step = stepPersist
	return nil
}

func (r *Runner) preview(state *runState) error {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(r.Out, "\n%s\n", bold("Dry run - no changes will be made. Plan:"))
	fmt.Fprintf(r.Out, "  1. Insert into %s:\n", r.Config.ChangelogPath)
	for _, line := range state.entryLines {
		fmt.Fprintf(r.Out, "       %s\n", line)
	}
	fmt.Fprintf(r.Out, "  2. Commit %s (%q)\n", r.Config.ChangelogPath, fmt.Sprintf(ChangelogCommitMessage, state.next.Tag()))
	fmt.Fprintf(r.Out, "  3. npm version %s (creates the %s tag)\n", state.kind, state.next.Tag())
	fmt.Fprintf(r.Out, "  4. Push branch with tags to %s\n", r.Config.Remote)

	state.step = stepDone
	return nil
}

func (r *Runner) persist(ctx context.Context, state *runState) error {
	// Fixed order: changelog commit, tag-creating bump, push. A failure
	// leaves the completed steps in place; there is no rollback.
	if err := r.updateChangelog(state); err != nil {
		return err
	}

	commitMsg := fmt.Sprintf(ChangelogCommitMessage, state.next.Tag())
	if _, err := r.Repo.CommitFile(r.Config.ChangelogPath, commitMsg); err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "committing changelog",
			fmt.Sprintf("%s was updated but not committed; inspect the working tree", r.Config.ChangelogPath))
	}
	r.stepDone("Committed " + r.Config.ChangelogPath)

	if err := r.Pkg.Bump(ctx, state.kind, BumpCommitMessage); err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "bumping package version",
			"The changelog commit is already in place",
			fmt.Sprintf("Finish manually: npm version %s && git push --follow-tags", state.kind))
	}
	r.stepDone(fmt.Sprintf("Bumped to %s (tag %s)", state.next, state.next.Tag()))

	branch, err := r.Repo.CurrentBranch()
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "resolving branch to push",
			"Commit and tag exist locally; push manually: git push --follow-tags")
	}
	if err := r.Repo.PushWithTags(ctx, r.Config.Remote, branch); err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "pushing release",
			"Commit and tag exist locally; push manually: git push --follow-tags")
	}
	r.stepDone(fmt.Sprintf("Pushed %s with tags to %s", branch, r.Config.Remote))

	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(r.Out, "\n%s %s released.\n", green("✓"), state.next.Tag())

	state.step = stepDone
	return nil
}

// updateChangelog splices the entry into the changelog document on disk.
func (r *Runner) updateChangelog(state *runState) error {
	data, err := os.ReadFile(r.Config.ChangelogPath)
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Structure, "reading changelog",
			fmt.Sprintf("Create %s with a '# Changelog' heading", r.Config.ChangelogPath))
	}

	updated, err := changelog.InsertEntry(string(data), state.entryLines)
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Structure, "updating changelog",
			fmt.Sprintf("Add a '# Changelog' heading to %s", r.Config.ChangelogPath))
	}

	if err := os.WriteFile(r.Config.ChangelogPath, []byte(updated), 0o644); err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "writing changelog")
	}

	r.stepDone("Updated " + r.Config.ChangelogPath)
	return nil
}

// newSession creates the editor session through the injected constructor.
func (r *Runner) newSession(initial string) (EditorSession, error) {
	if r.NewEditorSession != nil {
		return r.NewEditorSession(r.EditorProgram, initial)
	}
	session, err := editor.NewSession(r.EditorProgram, initial)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// withSpinner runs fn behind a spinner when attached to a terminal, or a
// plain status line otherwise.
func (r *Runner) withSpinner(message string, fn func() error) error {
	if !r.Interactive {
		fmt.Fprintln(r.Err, message)
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(r.Err))
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}

// stepDone prints a completed persistence step.
func (r *Runner) stepDone(message string) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(r.Out, "%s %s\n", green("✓"), message)
}

// parseConfirmation interprets the confirmation input. Empty, "y", and
// "yes" accept the suggestion; "n" and "no" reject; an explicit bump
// keyword overrides. Anything else is treated as acceptance.
func parseConfirmation(input string, suggested semver.Kind) (semver.Kind, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	switch normalized {
	case "", "y", "yes":
		return suggested, true
	case "n", "no":
		return suggested, false
	}
	if kind, ok := semver.ParseKind(normalized); ok {
		return kind, true
	}
	return suggested, true
}

// readLine reads one line of user input; a closed stream reads as empty.
func readLine(in io.Reader) string {
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}
