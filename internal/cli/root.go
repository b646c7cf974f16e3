// Package cli defines the relcut command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/relcut/relcut/internal/advisor"
	"github.com/relcut/relcut/internal/config"
	"github.com/relcut/relcut/internal/editor"
	relerrors "github.com/relcut/relcut/internal/errors"
	"github.com/relcut/relcut/internal/git"
	"github.com/relcut/relcut/internal/pkgmgr"
	"github.com/relcut/relcut/internal/release"
	"github.com/relcut/relcut/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "relcut",
	Short: "Cut a release from your commit history",
	Long: `relcut reads the commits since your last release tag, asks an LLM to
suggest a semver bump and release notes, and walks the release through:
changelog entry (edited in your $EDITOR), changelog commit, npm version
bump, and push with tags.

Requires OPENAI_API_KEY in the environment.`,
	Example: `  # Cut a release interactively
  relcut

  # Preview the plan without changing anything
  relcut --dry-run

  # Accept the suggested bump without prompting
  relcut -y`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		skipConfirm, _ := cmd.Flags().GetBool("yes")
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		return runRelease(cmd, dryRun, skipConfirm, configPath, debug)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to project config file")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.Flags().Bool("dry-run", false, "preview the release plan without making changes")
	rootCmd.Flags().BoolP("yes", "y", false, "accept the suggested bump without prompting")
}

// runRelease wires the collaborators and runs one release.
func runRelease(cmd *cobra.Command, dryRun, skipConfirm bool, configPath string, debug bool) error {
	if debug {
		git.SetDebugLogger(func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[debug] "+format+"\n", args...)
		})
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Configuration, "loading configuration",
			"Check .relcut/config.yml and RELCUT_* environment variables")
	}
	if skipConfirm {
		cfg.SkipConfirmations = true
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return relerrors.NewConfigurationError("OPENAI_API_KEY is not set",
			"Export your API key: export OPENAI_API_KEY=sk-...",
			"relcut sends commit messages to the configured API to draft release notes")
	}

	repo, err := git.Open(".")
	if err != nil {
		return relerrors.WrapWithMessage(err, relerrors.Execution, "opening repository",
			"Run relcut from inside a git repository")
	}

	runner := &release.Runner{
		Config:        cfg,
		Repo:          repo,
		Advisor:       advisor.NewClient(apiKey, cfg.APIBaseURL, cfg.Model, cfg.MaxTokens, cfg.Temperature),
		Pkg:           pkgmgr.New(cfg.ManifestPath),
		EditorProgram: editor.Resolve(),
		DryRun:        dryRun,
		Interactive:   term.IsTerminal(int(os.Stdout.Fd())),
		In:            cmd.InOrStdin(),
		Out:           cmd.OutOrStdout(),
		Err:           cmd.ErrOrStderr(),
	}
	return runner.Run(cmd.Context())
}

// Execute runs the root command, rendering any failure to stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		relerrors.Fprint(os.Stderr, err)
		return err
	}
	return nil
}
