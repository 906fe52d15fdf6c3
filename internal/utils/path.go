package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppName is used for the per-user config and data directories.
const AppName = "typeahead"

// ConfigDir returns the platform config directory for typeahead.
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, "."+AppName)
	}
}

// GetExecutableDir returns the directory of the current executable with symlinks resolved.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return filepath.Dir(execPath), nil
}

// ResolveDataPath finds an existing file for a user supplied path.
// Absolute paths are returned as is. Relative paths are tried against the
// working directory, the executable directory and the config directory, in that
// order. When nothing exists the working directory candidate is returned so the
// caller reports a sensible path.
func ResolveDataPath(userPath string) string {
	if userPath == "" || filepath.IsAbs(userPath) {
		return userPath
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, userPath))
	}
	if execDir, err := GetExecutableDir(); err == nil {
		candidates = append(candidates, filepath.Join(execDir, userPath))
	}
	candidates = append(candidates, filepath.Join(ConfigDir(), userPath))

	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Resolved %s to %s", userPath, path)
			return path
		}
		log.Debugf("Path candidate not found: %s", path)
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return userPath
}
