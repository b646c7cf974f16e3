package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relcut/relcut/internal/semver"
)

// recordingRunner captures every command instead of executing it.
type recordingRunner struct {
	calls [][]string
	err   error
	out   []byte
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.out, r.err
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCurrentVersion(t *testing.T) {
	path := writeManifest(t, `{"name":"demo","version":"1.4.2","private":true}`)

	v, err := New(path).CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, semver.Version{Major: 1, Minor: 4, Patch: 2}, v)
}

func TestCurrentVersion_Errors(t *testing.T) {
	tests := map[string]struct {
		manifest string
		errPart  string
	}{
		"missing version field": {`{"name":"demo"}`, "no version field"},
		"malformed json":        {`{"name":`, "parsing manifest"},
		"malformed version":     {`{"version":"1.2"}`, "exactly three"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeManifest(t, tc.manifest)
			_, err := New(path).CurrentVersion()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestCurrentVersion_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.json")).CurrentVersion()
	assert.Error(t, err)
}

func TestBump_InvokesNpmVersion(t *testing.T) {
	runner := &recordingRunner{}
	npm := &NPM{ManifestPath: "package.json", Runner: runner}

	err := npm.Bump(context.Background(), semver.Minor, "chore(release): %s")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"npm", "version", "minor", "-m", "chore(release): %s"}, runner.calls[0])
}

func TestBump_SurfacesCommandFailure(t *testing.T) {
	runner := &recordingRunner{err: fmt.Errorf("exit status 1"), out: []byte("npm ERR! Git working directory not clean.\n")}
	npm := &NPM{ManifestPath: "package.json", Runner: runner}

	err := npm.Bump(context.Background(), semver.Patch, "v%s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "npm version patch failed")
	assert.Contains(t, err.Error(), "working directory not clean")
}
