package editor

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := map[string]struct {
		visual   string
		editor   string
		expected string
	}{
		"visual wins":     {"code --wait", "nano", "code --wait"},
		"editor fallback": {"", "nano", "nano"},
		"default":         {"", "", DefaultProgram},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("VISUAL", tc.visual)
			t.Setenv("EDITOR", tc.editor)
			assert.Equal(t, tc.expected, Resolve())
		})
	}
}

// fakeEditor writes a shell script that acts as the editor under test.
func fakeEditor(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script editors are not available on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-editor")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestSession_EditReadsBackContent(t *testing.T) {
	program := fakeEditor(t, `printf '%s\n' '- Edited note' >> "$1"`)

	session, err := NewSession(program, "## 1.1.0\n\n- Draft note\n")
	require.NoError(t, err)
	defer session.Close()

	content, err := session.Edit()
	require.NoError(t, err)
	assert.Equal(t, "## 1.1.0\n\n- Draft note\n- Edited note\n", content)
}

func TestSession_DiscardedFileAborts(t *testing.T) {
	program := fakeEditor(t, `rm -f "$1"`)

	session, err := NewSession(program, "## 1.1.0\n")
	require.NoError(t, err)
	defer session.Close()

	_, err = session.Edit()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiscarded))
}

func TestSession_EditorFailure(t *testing.T) {
	program := fakeEditor(t, `exit 3`)

	session, err := NewSession(program, "content")
	require.NoError(t, err)
	defer session.Close()

	_, err = session.Edit()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDiscarded)
}

func TestSession_CloseRemovesFile(t *testing.T) {
	session, err := NewSession("true", "content")
	require.NoError(t, err)

	path := session.Path()
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, session.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Closing again is not an error.
	assert.NoError(t, session.Close())
}

func TestNewSession_SeedsInitialContent(t *testing.T) {
	session, err := NewSession("true", "## 2.0.0\n\n- Breaking\n")
	require.NoError(t, err)
	defer session.Close()

	data, err := os.ReadFile(session.Path())
	require.NoError(t, err)
	assert.Equal(t, "## 2.0.0\n\n- Breaking\n", string(data))
}
