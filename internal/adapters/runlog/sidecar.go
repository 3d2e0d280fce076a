package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSidecar is the key -> destination URL report written after a migration
type FileSidecar struct {
	path string
}

func NewFileSidecar(path string) *FileSidecar {
	return &FileSidecar{path: path}
}

func (s *FileSidecar) Path() string {
	return s.path
}

// Write replaces the file with mapping as indented JSON
func (s *FileSidecar) Write(mapping map[string]string) error {
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create side-car directory: %w", err)
	}

	return os.WriteFile(s.path, append(data, '\n'), 0644)
}

// Read loads the mapping. The error wraps os.ErrNotExist when there is no file.
func (s *FileSidecar) Read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	mapping := map[string]string{}
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return mapping, nil
}
