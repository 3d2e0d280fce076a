package runlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
)

func TestFileRunLog_AppendList(t *testing.T) {
	ctx := context.Background()
	log := NewFileRunLog(filepath.Join(t.TempDir(), "state", "runs.jsonl"))

	runs, err := log.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := domain.NewRunRecord(domain.ModeUpload, now)
	first.Results = append(first.Results, domain.TransferResult{Key: "collab/a/b", Status: domain.StatusSuccess, BytesTransferred: 10})
	second := domain.NewRunRecord(domain.ModeMigrate, now.Add(time.Minute))

	require.NoError(t, log.Append(ctx, first))
	require.NoError(t, log.Append(ctx, second))

	runs, err = log.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, domain.ModeMigrate, runs[1].Mode)
	assert.Equal(t, int64(10), runs[0].Results[0].BytesTransferred)

	latest, err := log.Find(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	byID, err := log.Find(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byID.ID)

	_, err = log.Find(ctx, "nope")
	assert.Error(t, err)
}

func TestFileRunLog_SkipsTornLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":\"a\",\"mode\":\"upload\"}\n{\"id\":\"b\",\n\n"), 0644))

	runs, err := NewFileRunLog(path).List(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a", runs[0].ID)
}

func TestFileSidecar(t *testing.T) {
	s := NewFileSidecar(filepath.Join(t.TempDir(), "out", "blob-urls.json"))

	_, err := s.Read()
	assert.True(t, errors.Is(err, os.ErrNotExist))

	want := map[string]string{"collab/a/b": "https://blob.example/videos/collab/a/b.mp4"}
	require.NoError(t, s.Write(want))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, os.WriteFile(s.Path(), []byte("{"), 0644))
	_, err = s.Read()
	assert.Error(t, err)
}
