package blob

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

func TestVercelStore_Put(t *testing.T) {
	var gotPath string
	var gotBody []byte
	var gotHeader http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(map[string]string{
			"url":      "https://store.public.blob.vercel-storage.com" + r.URL.Path,
			"pathname": r.URL.Path[1:],
		})
	}))
	defer srv.Close()

	store, err := NewVercelStore(VercelOptions{APIURL: srv.URL + "/", APIVersion: "7", Token: "tok"}, nil)
	require.NoError(t, err)

	res, err := store.Put(context.Background(), "videos/collab/a/b.mp4", []byte("data"), ports.PutOptions{
		Access:      "public",
		ContentType: "video/mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, "/videos/collab/a/b.mp4", gotPath)
	assert.Equal(t, "data", string(gotBody))
	assert.Equal(t, "Bearer tok", gotHeader.Get("authorization"))
	assert.Equal(t, "7", gotHeader.Get("x-api-version"))
	assert.Equal(t, "0", gotHeader.Get("x-add-random-suffix"))
	assert.Equal(t, "1", gotHeader.Get("x-allow-overwrite"))
	assert.Equal(t, "video/mp4", gotHeader.Get("x-content-type"))

	assert.Equal(t, "https://store.public.blob.vercel-storage.com/videos/collab/a/b.mp4", res.URL)
	assert.Equal(t, "videos/collab/a/b.mp4", res.Pathname)
}

func TestVercelStore_PutErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusForbidden, `{"error":{"code":"forbidden","message":"Access denied"}}`, "403 Forbidden: Access denied"},
		{"plain body", http.StatusBadGateway, "upstream down", "502 Bad Gateway: upstream down"},
		{"empty body", http.StatusInternalServerError, "", "500 Internal Server Error"},
		{"no url", http.StatusOK, `{"pathname":"x"}`, "response has no url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			store, err := NewVercelStore(VercelOptions{APIURL: srv.URL, APIVersion: "7", Token: "tok"}, nil)
			require.NoError(t, err)

			_, err = store.Put(context.Background(), "videos/x.mp4", []byte("d"), ports.PutOptions{})
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestVercelStore_Validation(t *testing.T) {
	_, err := NewVercelStore(VercelOptions{APIURL: "http://x"}, nil)
	assert.ErrorIs(t, err, ErrMissingToken)

	store, err := NewVercelStore(VercelOptions{APIURL: "http://x", Token: "t"}, nil)
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "a", nil, ports.PutOptions{Access: "private"})
	assert.ErrorIs(t, err, ErrUnsupportedAccess)
}
