package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const stateDir = ".assetctl"

// Workspace represents the site checkout the pipeline operates on.
// Local media paths in the catalog are relative to RootPath.
type Workspace struct {
	RootPath    string
	StatePath   string
	ChartsPath  string
	CatalogPath string
	SidecarPath string
	RunLogPath  string
	LogPath     string
}

// New creates a Workspace rooted at root (the current directory when empty)
func New(root, catalogFile, sidecarFile string) (*Workspace, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to determine workspace root: %w", err)
	}

	state := filepath.Join(abs, stateDir)
	ws := &Workspace{
		RootPath:    abs,
		StatePath:   state,
		ChartsPath:  filepath.Join(state, "charts"),
		CatalogPath: resolveIn(abs, catalogFile),
		SidecarPath: resolveIn(abs, sidecarFile),
		RunLogPath:  filepath.Join(state, "runs.jsonl"),
		LogPath:     filepath.Join(state, "assetctl.log"),
	}

	return ws, nil
}

func resolveIn(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Initialize creates the state directories if they don't exist
func (w *Workspace) Initialize() error {
	for _, dir := range []string{w.StatePath, w.ChartsPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Exists checks if the workspace root is a directory
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// HasCatalog reports whether the workspace carries its own catalog file
func (w *Workspace) HasCatalog() bool {
	info, err := os.Stat(w.CatalogPath)
	return err == nil && info.Mode().IsRegular()
}

// MediaPath returns the absolute path of a catalog-relative local file
func (w *Workspace) MediaPath(rel string) string {
	return resolveIn(w.RootPath, filepath.FromSlash(rel))
}

// ChartPath returns the full path for a rendered chart
func (w *Workspace) ChartPath(filename string) string {
	return filepath.Join(w.ChartsPath, filename)
}

// CleanCharts removes all rendered charts
func (w *Workspace) CleanCharts() error {
	entries, err := os.ReadDir(w.ChartsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read charts directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(w.ChartsPath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
