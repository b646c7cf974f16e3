// Package editor manages the interactive editing of a changelog entry in
// the user's text editor, through a scoped temporary file that is removed
// on every exit path.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// DefaultProgram is used when neither editor environment variable is set.
const DefaultProgram = "vi"

// ErrDiscarded is returned when the temporary file no longer exists after
// the editor session, meaning the user discarded the entry.
var ErrDiscarded = errors.New("entry file was discarded during editing")

// Resolve picks the editor program: $VISUAL, then $EDITOR, then the default.
func Resolve() string {
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if ed := os.Getenv("EDITOR"); ed != "" {
		return ed
	}
	return DefaultProgram
}

// Session is one scoped editing session over a temporary file.
type Session struct {
	// Program is the editor executable to launch.
	Program string
	// Stdin/Stdout/Stderr attach the editor to the terminal.
	// They default to the process streams when nil.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	path string
}

// NewSession creates the uniquely named temporary file seeded with the
// initial content. The caller must Close the session on every path.
func NewSession(program, initial string) (*Session, error) {
	f, err := os.CreateTemp("", "relcut-entry-*.md")
	if err != nil {
		return nil, fmt.Errorf("creating entry file: %w", err)
	}

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing entry file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("closing entry file: %w", err)
	}

	return &Session{Program: program, path: f.Name()}, nil
}

// Path returns the temporary file location.
func (s *Session) Path() string {
	return s.path
}

// Edit launches the editor on the file and, once it exits, re-reads the
// content. A file that no longer exists afterwards means the user discarded
// the entry (ErrDiscarded).
func (s *Session) Edit() (string, error) {
	cmd := exec.Command(s.Program, s.path)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s failed: %w", s.Program, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrDiscarded
		}
		return "", fmt.Errorf("reading edited entry: %w", err)
	}
	return string(data), nil
}

// Close removes the temporary file. A missing file is not an error, and a
// removal failure must never mask the error that got us here, so callers
// defer Close without inspecting its return on failure paths.
func (s *Session) Close() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
