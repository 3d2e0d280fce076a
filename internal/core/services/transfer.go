package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

var (
	ErrStoreNotConfigured = errors.New("store not configured")
	ErrNoSource           = errors.New("no source locator")
)

// TransferOptions holds the fixed parameters of every transfer
type TransferOptions struct {
	ResourceType      string
	BlobAccess        string
	CompressThreshold int64
	CompressSuffix    string
}

// TransferDeps are the collaborators of the executor. Stores a command does
// not need may be nil; using one then fails the item, not the batch.
type TransferDeps struct {
	Media    ports.MediaStore
	Blob     ports.BlobStore
	Fetcher  ports.Fetcher
	Encoder  ports.Encoder
	Resolver *Resolver
	Catalog  ports.Catalog

	// MediaPath turns a catalog local path into a filesystem path
	MediaPath func(string) string

	Log logrus.FieldLogger
}

// TransferService moves one asset at a time. It never returns an error:
// every failure is turned into a failed TransferResult.
type TransferService struct {
	deps TransferDeps
	opts TransferOptions
	now  func() time.Time
}

// NewTransferService creates a new executor
func NewTransferService(deps TransferDeps, opts TransferOptions) *TransferService {
	if deps.MediaPath == nil {
		deps.MediaPath = func(p string) string { return p }
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	if opts.ResourceType == "" {
		opts.ResourceType = "video"
	}
	if opts.BlobAccess == "" {
		opts.BlobAccess = "public"
	}
	if opts.CompressSuffix == "" {
		opts.CompressSuffix = "_compressed"
	}
	return &TransferService{deps: deps, opts: opts, now: time.Now}
}

// TransferRequest selects what Execute does with an entry
type TransferRequest struct {
	Mode domain.Mode

	// Target is the upload destination
	Target domain.Store

	// Compress re-encodes uploads above the size threshold
	Compress bool

	// Force re-encodes in compress mode regardless of size
	Force bool

	// SkipExisting skips migrations for keys already in the destination table
	SkipExisting bool
}

// Execute runs one transfer and times it
func (s *TransferService) Execute(ctx context.Context, entry domain.AssetEntry, req TransferRequest) domain.TransferResult {
	start := s.now()

	var res domain.TransferResult
	switch req.Mode {
	case domain.ModeMigrate:
		res = s.Migrate(ctx, entry, req.SkipExisting)
	case domain.ModeCompress:
		res = s.Compress(ctx, entry, req.Force)
	default:
		res = s.Upload(ctx, entry, req.Target, req.Compress)
	}

	res.Key = entry.Key
	res.Duration = s.now().Sub(start)

	log := s.deps.Log.WithFields(logrus.Fields{"key": entry.Key, "mode": req.Mode, "status": res.Status})
	if res.Status == domain.StatusFailed {
		log.WithField("error", res.Error).Warn("Transfer failed")
	} else {
		log.Debug("Transfer finished")
	}
	return res
}

// Upload sends the entry's local file to target under the entry key
func (s *TransferService) Upload(ctx context.Context, entry domain.AssetEntry, target domain.Store, compress bool) domain.TransferResult {
	if entry.LocalPath == "" {
		if !entry.Eligible() {
			return domain.Failed(entry.Key, domain.ErrNotEligible)
		}
		return domain.Skipped(entry.Key, "no local file; already migrated")
	}

	path := s.deps.MediaPath(entry.LocalPath)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return domain.Failed(entry.Key, domain.ErrFileNotFound)
	}

	uploadPath := path
	var original int64
	if compress && info.Size() > s.opts.CompressThreshold {
		out := CompressedPath(path, s.opts.CompressSuffix)
		if err := s.encode(ctx, path, out); err != nil {
			return domain.Failed(entry.Key, err)
		}
		uploadPath = out
		original = info.Size()
	}

	var res domain.TransferResult
	switch target {
	case domain.StoreBlob:
		res = s.uploadBlob(ctx, entry, uploadPath)
	default:
		res = s.uploadCDN(ctx, entry, uploadPath)
	}

	if original > 0 {
		res.OriginalBytes = original
		res.OutputPath = uploadPath
	}
	return res
}

func (s *TransferService) uploadCDN(ctx context.Context, entry domain.AssetEntry, path string) domain.TransferResult {
	if s.deps.Media == nil {
		return domain.Failed(entry.Key, fmt.Errorf("cdn %w", ErrStoreNotConfigured))
	}

	asset, err := s.deps.Media.Upload(ctx, path, ports.UploadOptions{
		PublicID:     entry.Key,
		ResourceType: s.opts.ResourceType,
		Overwrite:    true,
	})
	if err != nil {
		return domain.Failed(entry.Key, err)
	}

	bytes := asset.Bytes
	if bytes == 0 {
		if info, err := os.Stat(path); err == nil {
			bytes = info.Size()
		}
	}

	return domain.TransferResult{
		Key:              entry.Key,
		Status:           domain.StatusSuccess,
		DestinationURL:   asset.SecureURL,
		BytesTransferred: bytes,
	}
}

func (s *TransferService) uploadBlob(ctx context.Context, entry domain.AssetEntry, path string) domain.TransferResult {
	if s.deps.Blob == nil {
		return domain.Failed(entry.Key, fmt.Errorf("blob %w", ErrStoreNotConfigured))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Failed(entry.Key, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err))
	}

	return s.put(ctx, entry, ExtFromURL(path), data)
}

// Migrate downloads the entry from the CDN and writes it to the blob store
func (s *TransferService) Migrate(ctx context.Context, entry domain.AssetEntry, skipExisting bool) domain.TransferResult {
	if skipExisting && s.deps.Catalog != nil {
		if _, ok := s.deps.Catalog.Addresses(domain.StoreBlob)[entry.Key]; ok {
			return domain.Skipped(entry.Key, "already in destination")
		}
	}

	src, ok := s.deps.Resolver.SourceURL(entry)
	if !ok {
		if !entry.Eligible() {
			return domain.Failed(entry.Key, domain.ErrNotEligible)
		}
		return domain.Failed(entry.Key, fmt.Errorf("%w: cdn cloud name not set", ErrNoSource))
	}
	if s.deps.Fetcher == nil {
		return domain.Failed(entry.Key, fmt.Errorf("fetcher %w", ErrStoreNotConfigured))
	}

	resp, err := s.deps.Fetcher.Fetch(ctx, src)
	if err != nil {
		return domain.Failed(entry.Key, fmt.Errorf("failed to download: %w", err))
	}
	if !resp.OK() {
		return domain.Failed(entry.Key, fmt.Errorf("failed to download: %d %s", resp.StatusCode, resp.Status))
	}

	return s.put(ctx, entry, ExtFromURL(src), resp.Data)
}

func (s *TransferService) put(ctx context.Context, entry domain.AssetEntry, ext string, data []byte) domain.TransferResult {
	if s.deps.Blob == nil {
		return domain.Failed(entry.Key, fmt.Errorf("blob %w", ErrStoreNotConfigured))
	}

	put, err := s.deps.Blob.Put(ctx, DestinationPath(entry.Key, ext), data, ports.PutOptions{
		Access:          s.opts.BlobAccess,
		AddRandomSuffix: false,
		ContentType:     mimetype.Detect(data).String(),
	})
	if err != nil {
		return domain.Failed(entry.Key, fmt.Errorf("upload failed: %w", err))
	}

	return domain.TransferResult{
		Key:              entry.Key,
		Status:           domain.StatusSuccess,
		DestinationURL:   put.URL,
		BytesTransferred: int64(len(data)),
	}
}

// Compress re-encodes the entry's local file next to the original
func (s *TransferService) Compress(ctx context.Context, entry domain.AssetEntry, force bool) domain.TransferResult {
	if entry.LocalPath == "" {
		return domain.Skipped(entry.Key, "no local file")
	}

	path := s.deps.MediaPath(entry.LocalPath)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return domain.Failed(entry.Key, domain.ErrFileNotFound)
	}

	if !force && info.Size() <= s.opts.CompressThreshold {
		return domain.Skipped(entry.Key, fmt.Sprintf("below threshold (%s)", domain.FormatMB(info.Size())))
	}

	out := CompressedPath(path, s.opts.CompressSuffix)
	if err := s.encode(ctx, path, out); err != nil {
		return domain.Failed(entry.Key, err)
	}

	outInfo, err := os.Stat(out)
	if err != nil {
		return domain.Failed(entry.Key, fmt.Errorf("compression failed: %w", err))
	}

	return domain.TransferResult{
		Key:              entry.Key,
		Status:           domain.StatusSuccess,
		BytesTransferred: outInfo.Size(),
		OriginalBytes:    info.Size(),
		OutputPath:       out,
	}
}

// encode never touches in; a failed run leaves no output behind
func (s *TransferService) encode(ctx context.Context, in, out string) error {
	if s.deps.Encoder == nil {
		return fmt.Errorf("compression failed: encoder %w", ErrStoreNotConfigured)
	}
	if err := s.deps.Encoder.Encode(ctx, in, out); err != nil {
		os.Remove(out)
		return fmt.Errorf("compression failed: %w", err)
	}
	return nil
}

// CompressedPath returns <dir>/<name><suffix><ext>
func CompressedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
