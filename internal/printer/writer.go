package printer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// OutputPath appends ".go" when path has no extension and falls back to
// "output.go" for an empty path.
func OutputPath(path string) string {
	if path == "" {
		return "output.go"
	}

	if filepath.Ext(path) == "" {
		return path + ".go"
	}

	return path
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}

	return nil
}

// WriteDebugUnformatted writes code that failed to format to a sidecar
// file next to the intended output.
func WriteDebugUnformatted(path string, content []byte) (string, error) {
	debugPath := strings.TrimSuffix(path, ".go") + ".unformatted.go"
	return debugPath, WriteFile(debugPath, content)
}
