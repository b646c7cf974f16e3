// Package config provides hierarchical configuration management for relcut
// using koanf. Configuration is loaded with priority: environment variables
// (RELCUT_*) > project config (.relcut/config.yml) > user config
// (~/.config/relcut/config.yml) > defaults. Both YAML and JSON config files
// are accepted; YAML wins when both exist at the same level.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration holds every tunable of the release run.
type Configuration struct {
	// Model is the advisor model identifier.
	Model string `koanf:"model" validate:"required"`
	// MaxTokens caps the advisor completion length.
	MaxTokens int `koanf:"max_tokens" validate:"min=1"`
	// Temperature is the advisor sampling temperature.
	Temperature float64 `koanf:"temperature" validate:"min=0,max=2"`
	// APIBaseURL is the advisor endpoint base (no trailing slash).
	APIBaseURL string `koanf:"api_base_url" validate:"required"`

	// ChangelogPath is the markdown changelog document to update.
	ChangelogPath string `koanf:"changelog_path" validate:"required"`
	// ManifestPath is the package manifest holding the current version.
	ManifestPath string `koanf:"manifest_path" validate:"required"`
	// Remote is the git remote to push to.
	Remote string `koanf:"remote" validate:"required"`

	// FallbackCommitCount limits history when no release tag exists yet.
	FallbackCommitCount int `koanf:"fallback_commit_count" validate:"min=1"`

	// SkipConfirmations accepts the suggested bump without prompting.
	// Can also be set via the RELCUT_YES environment variable.
	SkipConfirmations bool `koanf:"skip_confirmations"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .relcut/config.yml).
	ProjectConfigPath string
}

// Load loads configuration from user, project, and environment sources.
// projectConfigPath of "" uses the default location.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("RELCUT_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	return finalize(k)
}

// loadUserConfig loads the user-level config file if one exists.
// YAML is preferred over JSON when both are present.
func loadUserConfig(k *koanf.Koanf) error {
	yamlPath, err := UserConfigPath()
	if err != nil {
		return nil // no resolvable config dir, defaults apply
	}
	jsonPath := strings.TrimSuffix(yamlPath, ".yml") + ".json"
	return loadLevel(k, yamlPath, jsonPath, "user")
}

// loadProjectConfig loads the project-level config file if one exists.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}
	return loadLevel(k, yamlPath, ProjectJSONConfigPath(), "project")
}

// loadLevel loads one configuration level, preferring YAML over JSON.
func loadLevel(k *koanf.Koanf, yamlPath, jsonPath, level string) error {
	if fileExists(yamlPath) {
		if err := ValidateYAMLSyntax(yamlPath); err != nil {
			return fmt.Errorf("validating %s config: %w", level, err)
		}
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading %s config %s: %w", level, yamlPath, err)
		}
		return nil
	}
	if fileExists(jsonPath) {
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return fmt.Errorf("loading %s config %s: %w", level, jsonPath, err)
		}
	}
	return nil
}

// finalize unmarshals and validates the merged configuration.
func finalize(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := ValidateConfigValues(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if os.Getenv("RELCUT_YES") != "" {
		cfg.SkipConfirmations = true
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is stat-able.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: RELCUT_MAX_TOKENS -> max_tokens
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "RELCUT_"))
}
