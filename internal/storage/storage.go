package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExportName is the file name used when an export path names a directory.
const DefaultExportName = "my_playlist.txt"

var storageDir string

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		storageDir = "."
		return
	}
	storageDir = filepath.Join(home, ".music-agent")
}

// DefaultExportPath is where exports land when no path is given.
func DefaultExportPath() string {
	return filepath.Join(storageDir, "exports", DefaultExportName)
}

// ResolveExportPath expands an empty path to the default location and a
// directory to DefaultExportName inside it.
func ResolveExportPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultExportPath()
	}
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return filepath.Join(path, DefaultExportName)
	}
	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		return filepath.Join(path, DefaultExportName)
	}
	return path
}

// WriteExport replaces the file at path with text in one rename so readers
// never observe a half-written playlist.
func WriteExport(path, text string) (string, error) {
	path = ResolveExportPath(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, "playlist-*.txt")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("save export: %w", err)
	}
	return path, nil
}
