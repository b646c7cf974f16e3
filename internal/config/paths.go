package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/relcut/config.yml
// - macOS: ~/Library/Application Support/relcut/config.yml
// - Windows: %APPDATA%\relcut\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "relcut", "config.yml"), nil
}

// ProjectConfigPath returns the project-level YAML config path,
// always .relcut/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".relcut", "config.yml")
}

// ProjectJSONConfigPath returns the project-level JSON config path.
func ProjectJSONConfigPath() string {
	return filepath.Join(".relcut", "config.json")
}
