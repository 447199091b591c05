// ABOUTME: Standard filesystem paths for irepl configuration and the shadow project
// ABOUTME: Resolves ~/.irepl/ for global and .irepl/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".irepl"
	projectDirName = ".irepl"
)

// GlobalDir returns the user-global config directory (~/.irepl/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.irepl/ in cwd).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "config.yaml")
}

// DefaultShadowDir is where the shadow project lives unless configured.
func DefaultShadowDir() string {
	return filepath.Join(GlobalDir(), "shadow")
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o700)
}
