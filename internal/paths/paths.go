// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user and per-project directories.
const AppName = "wildo"

// Expand replaces a leading "~" or "~/" with the user's home directory.
// Paths that do not start with a tilde, or when the home directory cannot be
// determined, are returned unchanged.
func Expand(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ConfigDir returns ~/.config/wildo, or "" when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// ProjectConfigPath is the config file looked up in the working directory.
func ProjectConfigPath() string {
	return filepath.Join("."+AppName, "config.yaml")
}

// UserConfigPath is the per-user config file.
func UserConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DataDir returns ~/.local/share/wildo, or "" when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", AppName)
}
