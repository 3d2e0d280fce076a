package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
)

const sample = `
entries:
  - key: collab/urban-needs/product-1
    title: Brand Content
    category: Urban Needs
    local_path: public/assets/a.mp4
  - key: collab/burger-bae/food-1
    title: Brand Content
    category: Burger Bae
    local_path: public/assets/b.mp4
  - key: our-work/ugc/cta-ad
    title: Call-to-Action Ad
    category: UGC
    size: large
    local_path: public/assets/a.mp4
addresses:
  blob:
    collab/burger-bae/food-1: https://blob.example/videos/collab/burger-bae/food-1.mp4
`

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 26, c.Len())
	assert.Equal(t, EmbeddedSource, c.Source())

	e, ok := c.Find("our-work/mini-vlog/bmw-event-compressed")
	require.True(t, ok)
	assert.Equal(t, domain.SizeLarge, e.SizeHint)
	assert.Equal(t, "BMW Event Coverage", e.Title)

	for _, entry := range c.ListAll() {
		assert.True(t, entry.Eligible(), "%s has nothing to transfer", entry.Key)
	}

	// the two bmw entries intentionally reuse one compressed file
	shared := c.SharedPaths()
	assert.Equal(t, []string{
		"collab/suhana-sethi/bmw-event-compressed",
		"our-work/mini-vlog/bmw-event-compressed",
	}, shared["public/assets/compressed/bmw event(6).mov"])
}

func TestParse_OrderAndFind(t *testing.T) {
	c, err := Parse([]byte(sample), "sample.yaml")
	require.NoError(t, err)

	all := c.ListAll()
	require.Len(t, all, 3)
	assert.Equal(t, "collab/urban-needs/product-1", all[0].Key)
	assert.Equal(t, "our-work/ugc/cta-ad", all[2].Key)

	_, ok := c.Find("collab/nope/x")
	assert.False(t, ok)

	// callers cannot alias the internal slice
	all[0].Title = "changed"
	again, _ := c.Find("collab/urban-needs/product-1")
	assert.Equal(t, "Brand Content", again.Title)
}

func TestParse_DuplicateKey(t *testing.T) {
	data := `
entries:
  - {key: collab/a/b, title: T, category: C}
  - {key: collab/a/b, title: T, category: C}
`
	_, err := Parse([]byte(data), "dup.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestParse_InvalidEntry(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad key", "entries:\n  - {key: noslash, title: T, category: C}\n"},
		{"no title", "entries:\n  - {key: a/b, category: C}\n"},
		{"bad size", "entries:\n  - {key: a/b, title: T, category: C, size: huge}\n"},
		{"bad store", "entries: []\naddresses:\n  ftp: {}\n"},
		{"yaml", "entries: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "bad.yaml")
			assert.Error(t, err)
		})
	}
}

func TestFilter(t *testing.T) {
	c, err := Parse([]byte(sample), "sample.yaml")
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"collab/urban-needs/product-1", "collab/burger-bae/food-1", "our-work/ugc/cta-ad"}},
		{"group", Filter{Group: "collab"}, []string{"collab/urban-needs/product-1", "collab/burger-bae/food-1"}},
		{"folder", Filter{Group: "collab/burger-bae/"}, []string{"collab/burger-bae/food-1"}},
		{"group is not a prefix match", Filter{Group: "coll"}, []string{}},
		{"keys", Filter{Keys: []string{"our-work/ugc/cta-ad"}}, []string{"our-work/ugc/cta-ad"}},
		{"missing", Filter{Missing: true}, []string{"collab/urban-needs/product-1", "our-work/ugc/cta-ad"}},
		{"group and missing", Filter{Group: "collab", Missing: true}, []string{"collab/urban-needs/product-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, e := range c.Filter(tt.filter) {
				got = append(got, e.Key)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"collab/x/y"}, c.UnknownKeys([]string{"collab/x/y", "our-work/ugc/cta-ad"}))
	assert.Equal(t, []string{"collab/urban-needs", "collab/burger-bae", "our-work/ugc"}, c.Folders())
}

func TestAddresses_Copy(t *testing.T) {
	c, err := Parse([]byte(sample), "sample.yaml")
	require.NoError(t, err)

	blob := c.Addresses(domain.StoreBlob)
	require.Len(t, blob, 1)
	blob["collab/x/y"] = "mutated"

	assert.Len(t, c.Addresses(domain.StoreBlob), 1)
	assert.Empty(t, c.Addresses(domain.StoreCDN))
}

func TestPromoteAndSave(t *testing.T) {
	c, err := Parse([]byte(sample), "sample.yaml")
	require.NoError(t, err)

	next, unknown := c.Promote(map[string]string{
		"collab/urban-needs/product-1": "https://blob.example/videos/collab/urban-needs/product-1.mp4",
		"collab/gone/x":                "https://blob.example/videos/collab/gone/x.mp4",
	})
	assert.Equal(t, []string{"collab/gone/x"}, unknown)
	assert.Len(t, next.Addresses(domain.StoreBlob), 2)

	// the original is untouched
	assert.Len(t, c.Addresses(domain.StoreBlob), 1)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, next.Save(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, next.ListAll(), reloaded.ListAll())
	assert.Equal(t, next.Addresses(domain.StoreBlob), reloaded.Addresses(domain.StoreBlob))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
