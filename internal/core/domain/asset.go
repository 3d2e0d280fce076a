package domain

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// SizeHint is the layout size a gallery tile uses for an asset
type SizeHint string

const (
	SizeSmall  SizeHint = "small"
	SizeMedium SizeHint = "medium"
	SizeLarge  SizeHint = "large"
	SizeTall   SizeHint = "tall"
)

var (
	ErrInvalidKey   = errors.New("invalid asset key")
	ErrNotEligible  = errors.New("no local path or source locator")
	ErrFileNotFound = errors.New("File not found")
)

// AssetEntry is one media item of the catalog.
// Entries are loaded once and never mutated.
type AssetEntry struct {
	Key           string   `yaml:"key" json:"key"`
	Title         string   `yaml:"title" json:"title"`
	Category      string   `yaml:"category" json:"category"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	LocalPath     string   `yaml:"local_path,omitempty" json:"local_path,omitempty"`
	SourceLocator string   `yaml:"source,omitempty" json:"source,omitempty"`
	SizeHint      SizeHint `yaml:"size,omitempty" json:"size,omitempty"`
}

// Group returns the first segment of the key (e.g. "collab")
func (e AssetEntry) Group() string {
	if i := strings.Index(e.Key, "/"); i >= 0 {
		return e.Key[:i]
	}
	return e.Key
}

// Folder returns the key without its last segment (e.g. "collab/urban-needs")
func (e AssetEntry) Folder() string {
	dir := path.Dir(e.Key)
	if dir == "." {
		return ""
	}
	return dir
}

// Slug returns the last segment of the key
func (e AssetEntry) Slug() string {
	return path.Base(e.Key)
}

// Eligible reports whether the entry has anything to transfer from
func (e AssetEntry) Eligible() bool {
	return e.LocalPath != "" || e.SourceLocator != ""
}

// Validate checks the entry's static invariants
func (e AssetEntry) Validate() error {
	if err := ValidateKey(e.Key); err != nil {
		return err
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("asset %s: title cannot be empty", e.Key)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("asset %s: category cannot be empty", e.Key)
	}
	if e.SizeHint != "" && !e.SizeHint.Valid() {
		return fmt.Errorf("asset %s: unknown size hint %q", e.Key, e.SizeHint)
	}
	return nil
}

// Valid reports whether the hint is one of the known layout sizes
func (s SizeHint) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeTall:
		return true
	}
	return false
}

// ValidateKey checks that a key is hierarchical: at least two non-empty
// segments, no surrounding slashes and no whitespace.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, " \t\n") {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidKey, key)
	}
	parts := strings.Split(key, "/")
	if len(parts) < 2 {
		return fmt.Errorf("%w: %q must look like group/slug", ErrInvalidKey, key)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidKey, key)
		}
	}
	return nil
}
