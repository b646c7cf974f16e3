// Package pkgmgr wraps the npm collaborator: reading the current version
// from the package manifest and running the tag-creating `npm version` bump.
package pkgmgr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/relcut/relcut/internal/semver"
)

// CommandRunner executes an external command and returns its combined
// output. It exists so tests can substitute a recorder for npm.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// NPM is the npm-backed package manager.
type NPM struct {
	// ManifestPath is the package.json to read the current version from.
	ManifestPath string
	// Runner executes npm. Defaults to ExecRunner when nil.
	Runner CommandRunner
}

// New constructs an NPM collaborator for the given manifest.
func New(manifestPath string) *NPM {
	return &NPM{ManifestPath: manifestPath, Runner: ExecRunner{}}
}

func (n *NPM) runner() CommandRunner {
	if n.Runner == nil {
		return ExecRunner{}
	}
	return n.Runner
}

// CurrentVersion reads and parses the version field of the manifest.
func (n *NPM) CurrentVersion() (semver.Version, error) {
	data, err := os.ReadFile(n.ManifestPath)
	if err != nil {
		return semver.Version{}, fmt.Errorf("reading manifest %s: %w", n.ManifestPath, err)
	}

	var manifest struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return semver.Version{}, fmt.Errorf("parsing manifest %s: %w", n.ManifestPath, err)
	}
	if manifest.Version == "" {
		return semver.Version{}, fmt.Errorf("manifest %s has no version field", n.ManifestPath)
	}

	v, err := semver.Parse(manifest.Version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("manifest %s: %w", n.ManifestPath, err)
	}
	return v, nil
}

// Bump runs `npm version <kind> -m <message>`. npm itself creates the
// version commit and the annotated tag; relcut must not duplicate them.
// The message may contain %s, which npm replaces with the new version.
func (n *NPM) Bump(ctx context.Context, kind semver.Kind, message string) error {
	out, err := n.runner().Run(ctx, "npm", "version", kind.String(), "-m", message)
	if err != nil {
		return fmt.Errorf("npm version %s failed: %w: %s", kind, err, strings.TrimSpace(string(out)))
	}
	return nil
}
