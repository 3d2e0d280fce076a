package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/ports/mocks"
)

type recordingPromoter struct {
	path    string
	mapping map[string]string
	calls   int
}

func (p *recordingPromoter) PromoteTo(path string, mapping map[string]string) ([]string, error) {
	p.calls++
	p.path = path
	p.mapping = mapping
	return nil, nil
}

func TestPromote_Execute(t *testing.T) {
	cat := mocks.NewMockCatalog(
		domain.AssetEntry{Key: "collab/a/new"},
		domain.AssetEntry{Key: "collab/a/moved"},
		domain.AssetEntry{Key: "collab/a/same"},
	)
	cat.SetAddress(domain.StoreBlob, "collab/a/moved", "https://blob.example/old.mp4")
	cat.SetAddress(domain.StoreBlob, "collab/a/same", "https://blob.example/same.mp4")

	sidecar := mocks.NewMockSidecar()
	require.NoError(t, sidecar.Write(map[string]string{
		"collab/a/new":   "https://blob.example/new.mp4",
		"collab/a/moved": "https://blob.example/moved.mp4",
		"collab/a/same":  "https://blob.example/same.mp4",
		"collab/gone/x":  "https://blob.example/gone.mp4",
	}))

	promoter := &recordingPromoter{}
	svc := NewPromoteService(cat, promoter, sidecar)

	resp, err := svc.Execute(PromoteRequest{Path: "catalog.yaml"})
	require.NoError(t, err)

	assert.Equal(t, []string{"collab/a/new"}, resp.Added)
	assert.Equal(t, []string{"collab/a/moved"}, resp.Updated)
	assert.Equal(t, []string{"collab/a/same"}, resp.Unchanged)
	assert.Equal(t, []string{"collab/gone/x"}, resp.Unknown)
	assert.True(t, resp.Written)

	assert.Equal(t, "catalog.yaml", promoter.path)
	assert.Equal(t, map[string]string{
		"collab/a/new":   "https://blob.example/new.mp4",
		"collab/a/moved": "https://blob.example/moved.mp4",
	}, promoter.mapping)
}

func TestPromote_DryRun(t *testing.T) {
	cat := mocks.NewMockCatalog(domain.AssetEntry{Key: "collab/a/new"})
	sidecar := mocks.NewMockSidecar()
	require.NoError(t, sidecar.Write(map[string]string{"collab/a/new": "https://blob.example/new.mp4"}))

	promoter := &recordingPromoter{}
	resp, err := NewPromoteService(cat, promoter, sidecar).Execute(PromoteRequest{Path: "catalog.yaml", DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"collab/a/new"}, resp.Added)
	assert.False(t, resp.Written)
	assert.Zero(t, promoter.calls)
}

func TestPromote_NoSidecar(t *testing.T) {
	svc := NewPromoteService(mocks.NewMockCatalog(), &recordingPromoter{}, mocks.NewMockSidecar())
	_, err := svc.Execute(PromoteRequest{Path: "catalog.yaml"})
	assert.Error(t, err)
}
