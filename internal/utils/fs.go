package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// EnsureParentDir creates the directory that will hold filePath.
func EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "" || dir == "." {
		return nil
	}
	return EnsureDir(dir)
}

// SaveTOMLFile encodes data into a temp file next to filePath and renames it
// into place, so readers never observe a half written config.
func SaveTOMLFile(data any, filePath string) error {
	if err := EnsureParentDir(filePath); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".tmp-*.toml")
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, filePath)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}

	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			return absPath
		}
	}
	return path
}
