package ports

import (
	"context"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
)

// Catalog defines the port for read access to the asset catalog
type Catalog interface {
	// ListAll returns every entry in declaration order
	ListAll() []domain.AssetEntry

	// Find returns the entry for a key, false if it is unknown
	Find(key string) (domain.AssetEntry, bool)

	// Addresses returns the known key -> URL table of a store
	Addresses(store domain.Store) map[string]string
}

// RemoteAsset is one object as reported by the media CDN
type RemoteAsset struct {
	PublicID  string
	SecureURL string
	Bytes     int64
}

// UploadOptions controls a media CDN upload
type UploadOptions struct {
	PublicID     string
	ResourceType string
	Overwrite    bool
}

// ListOptions controls a media CDN listing
type ListOptions struct {
	ResourceType string
	Prefix       string
	Max          int
}

// MediaStore defines the port for the media CDN (store A)
type MediaStore interface {
	// Upload sends a local file to the CDN under opts.PublicID
	Upload(ctx context.Context, localPath string, opts UploadOptions) (*RemoteAsset, error)

	// List returns resources whose public id starts with opts.Prefix
	List(ctx context.Context, opts ListOptions) ([]RemoteAsset, error)
}

// PutOptions controls a blob write
type PutOptions struct {
	Access          string
	AddRandomSuffix bool
	ContentType     string
}

// PutResult is the blob store's answer to a write
type PutResult struct {
	URL      string
	Pathname string
}

// BlobStore defines the port for the blob storage service (store B)
type BlobStore interface {
	// Put writes data at path, replacing any previous object at that path
	Put(ctx context.Context, path string, data []byte, opts PutOptions) (*PutResult, error)
}

// FetchResult holds a fully buffered HTTP response
type FetchResult struct {
	Data       []byte
	StatusCode int
	Status     string
}

// OK reports a 2xx status
func (r *FetchResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher defines the port for downloading remote content into memory
type Fetcher interface {
	// Fetch performs a GET. Non-2xx responses are returned, not turned into errors.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Encoder defines the port for the external video encoder
type Encoder interface {
	// Encode re-encodes inputPath into outputPath
	Encode(ctx context.Context, inputPath, outputPath string) error

	// Available reports whether the encoder binary can be found
	Available() bool
}

// RunLog defines the port for the append-only run history
type RunLog interface {
	// Append stores a finished run
	Append(ctx context.Context, run *domain.RunRecord) error

	// List returns all runs, oldest first
	List(ctx context.Context) ([]domain.RunRecord, error)
}

// Sidecar defines the port for the key -> destination URL report
type Sidecar interface {
	// Write replaces the side-car file with the given mapping
	Write(mapping map[string]string) error

	// Read loads the side-car mapping
	Read() (map[string]string, error)

	// Path returns where the side-car lives
	Path() string
}

// CatalogPromoter defines the port for writing destination URLs back into the catalog file
type CatalogPromoter interface {
	// PromoteTo merges mapping into the destination table and saves the catalog at path.
	// Keys the catalog doesn't know are returned and not written.
	PromoteTo(path string, mapping map[string]string) (unknown []string, err error)
}
