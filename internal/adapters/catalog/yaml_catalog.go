package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// EmbeddedSource is reported by Source() for the built-in catalog
const EmbeddedSource = "(embedded)"

var ErrDuplicateKey = errors.New("duplicate asset key")

// catalogFile is the on-disk layout
type catalogFile struct {
	Entries   []domain.AssetEntry                `yaml:"entries"`
	Addresses map[domain.Store]map[string]string `yaml:"addresses"`
}

// YAMLCatalog is an immutable catalog loaded from YAML
type YAMLCatalog struct {
	entries   []domain.AssetEntry
	index     map[string]int
	addresses map[domain.Store]map[string]string
	source    string
}

// Default returns the catalog compiled into the binary
func Default() (*YAMLCatalog, error) {
	return Parse(defaultCatalog, EmbeddedSource)
}

// DefaultYAML returns the raw built-in catalog, used to seed a workspace
func DefaultYAML() []byte {
	out := make([]byte, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// Load reads a catalog file
func Load(path string) (*YAMLCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data, path)
}

// Parse builds a catalog from YAML, rejecting invalid or duplicate entries
func Parse(data []byte, source string) (*YAMLCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", source, err)
	}

	c := &YAMLCatalog{
		entries:   make([]domain.AssetEntry, 0, len(f.Entries)),
		index:     make(map[string]int, len(f.Entries)),
		addresses: map[domain.Store]map[string]string{},
		source:    source,
	}

	for _, e := range f.Entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", source, err)
		}
		if _, dup := c.index[e.Key]; dup {
			return nil, fmt.Errorf("catalog %s: %w: %s", source, ErrDuplicateKey, e.Key)
		}
		c.index[e.Key] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	for _, store := range []domain.Store{domain.StoreCDN, domain.StoreBlob} {
		c.addresses[store] = copyTable(f.Addresses[store])
	}
	for store := range f.Addresses {
		if _, err := domain.ParseStore(string(store)); err != nil {
			return nil, fmt.Errorf("catalog %s: addresses: %w", source, err)
		}
	}

	return c, nil
}

// Source returns the file the catalog came from
func (c *YAMLCatalog) Source() string {
	return c.source
}

// Len returns the number of entries
func (c *YAMLCatalog) Len() int {
	return len(c.entries)
}

// ListAll returns every entry in declaration order
func (c *YAMLCatalog) ListAll() []domain.AssetEntry {
	out := make([]domain.AssetEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Find looks an entry up by key
func (c *YAMLCatalog) Find(key string) (domain.AssetEntry, bool) {
	i, ok := c.index[key]
	if !ok {
		return domain.AssetEntry{}, false
	}
	return c.entries[i], true
}

// Addresses returns a copy of the store's key -> URL table
func (c *YAMLCatalog) Addresses(store domain.Store) map[string]string {
	return copyTable(c.addresses[store])
}

// Filter selects a subset of the catalog. Zero value selects everything.
type Filter struct {
	// Group matches keys equal to it or below it ("collab", "collab/urban-needs")
	Group string

	// Keys restricts to the listed keys
	Keys []string

	// Missing keeps only entries absent from the destination address table
	Missing bool
}

// Filter returns the matching entries in declaration order
func (c *YAMLCatalog) Filter(f Filter) []domain.AssetEntry {
	var keys map[string]bool
	if len(f.Keys) > 0 {
		keys = make(map[string]bool, len(f.Keys))
		for _, k := range f.Keys {
			keys[k] = true
		}
	}
	group := strings.TrimSuffix(f.Group, "/")
	blob := c.addresses[domain.StoreBlob]

	out := []domain.AssetEntry{}
	for _, e := range c.entries {
		if group != "" && e.Key != group && !strings.HasPrefix(e.Key, group+"/") {
			continue
		}
		if keys != nil && !keys[e.Key] {
			continue
		}
		if f.Missing {
			if _, ok := blob[e.Key]; ok {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// UnknownKeys returns the requested keys that are not in the catalog
func (c *YAMLCatalog) UnknownKeys(keys []string) []string {
	var unknown []string
	for _, k := range keys {
		if _, ok := c.index[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// Folders returns the distinct key folders in declaration order
func (c *YAMLCatalog) Folders() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range c.entries {
		f := e.Folder()
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// SharedPaths returns local paths used by more than one key, keys in declaration order
func (c *YAMLCatalog) SharedPaths() map[string][]string {
	byPath := map[string][]string{}
	for _, e := range c.entries {
		if e.LocalPath == "" {
			continue
		}
		byPath[e.LocalPath] = append(byPath[e.LocalPath], e.Key)
	}
	for p, keys := range byPath {
		if len(keys) < 2 {
			delete(byPath, p)
		}
	}
	return byPath
}

// Promote returns a new catalog whose destination table includes mapping.
// Keys the catalog doesn't know are skipped and returned sorted.
func (c *YAMLCatalog) Promote(mapping map[string]string) (*YAMLCatalog, []string) {
	next := &YAMLCatalog{
		entries:   c.entries,
		index:     c.index,
		addresses: map[domain.Store]map[string]string{},
		source:    c.source,
	}
	for store, table := range c.addresses {
		next.addresses[store] = copyTable(table)
	}

	var unknown []string
	for key, url := range mapping {
		if _, ok := c.index[key]; !ok {
			unknown = append(unknown, key)
			continue
		}
		next.addresses[domain.StoreBlob][key] = url
	}
	sort.Strings(unknown)

	return next, unknown
}

// Save writes the catalog back as YAML
func (c *YAMLCatalog) Save(path string) error {
	f := catalogFile{
		Entries:   c.entries,
		Addresses: c.addresses,
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	return nil
}

func copyTable(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// PromoteTo merges mapping and saves the result at path
func (c *YAMLCatalog) PromoteTo(path string, mapping map[string]string) ([]string, error) {
	next, unknown := c.Promote(mapping)
	if err := next.Save(path); err != nil {
		return unknown, err
	}
	return unknown, nil
}
