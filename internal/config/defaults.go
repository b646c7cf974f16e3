package config

// DefaultConfigTemplate returns a fully commented config template that
// documents every available option.
func DefaultConfigTemplate() string {
	return `# relcut configuration
# Priority: RELCUT_* env vars > .relcut/config.yml > ~/.config/relcut/config.yml

# Advisor settings
model: gpt-4o-mini                  # Chat-completions model used for release advice
max_tokens: 700                     # Completion length cap
temperature: 0.2                    # Sampling temperature (0-2)
api_base_url: https://api.openai.com # Endpoint base URL

# Repository settings
changelog_path: CHANGELOG.md        # Markdown changelog to update
manifest_path: package.json         # Manifest holding the current version
remote: origin                      # Git remote to push to
fallback_commit_count: 20           # Commits to consider when no release tag exists

# Prompting
skip_confirmations: false           # Accept the suggested bump without prompting (RELCUT_YES)
`
}

// Defaults returns the default configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"model":        "gpt-4o-mini",
		"max_tokens":   700,
		"temperature":  0.2,
		"api_base_url": "https://api.openai.com",

		"changelog_path": "CHANGELOG.md",
		"manifest_path":  "package.json",
		"remote":         "origin",

		// fallback_commit_count: history window when the repository has no
		// v<major>.<minor>.<patch> tag yet.
		"fallback_commit_count": 20,

		"skip_confirmations": false,
	}
}
