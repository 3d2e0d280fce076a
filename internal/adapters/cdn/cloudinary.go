package cdn

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

var ErrEmptyResult = errors.New("cloudinary returned no result")

// uploadAPI is the part of the Cloudinary upload API the store needs
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// adminAPI is the part of the Cloudinary admin API the store needs
type adminAPI interface {
	Assets(ctx context.Context, params admin.AssetsParams) (*admin.AssetsResult, error)
}

// CloudinaryStore implements the MediaStore port on top of cloudinary-go
type CloudinaryStore struct {
	upload uploadAPI
	admin  adminAPI
	log    logrus.FieldLogger
}

// NewCloudinaryStore creates a store from account credentials
func NewCloudinaryStore(cloudName, apiKey, apiSecret string, log logrus.FieldLogger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return newStore(&cld.Upload, &cld.Admin, log), nil
}

func newStore(up uploadAPI, adm adminAPI, log logrus.FieldLogger) *CloudinaryStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CloudinaryStore{upload: up, admin: adm, log: log}
}

// Upload sends a local file under opts.PublicID, replacing any existing resource
func (s *CloudinaryStore) Upload(ctx context.Context, localPath string, opts ports.UploadOptions) (*ports.RemoteAsset, error) {
	params := uploader.UploadParams{
		PublicID:     opts.PublicID,
		ResourceType: resourceType(opts.ResourceType),
		Overwrite:    api.Bool(opts.Overwrite),
		Invalidate:   api.Bool(opts.Overwrite),
	}

	s.log.WithFields(logrus.Fields{"public_id": opts.PublicID, "path": localPath}).Debug("Uploading to cloudinary")

	res, err := s.upload.Upload(ctx, localPath, params)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrEmptyResult
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}

	return &ports.RemoteAsset{
		PublicID:  res.PublicID,
		SecureURL: res.SecureURL,
		Bytes:     int64(res.Bytes),
	}, nil
}

// List returns the resources under opts.Prefix
func (s *CloudinaryStore) List(ctx context.Context, opts ports.ListOptions) ([]ports.RemoteAsset, error) {
	res, err := s.admin.Assets(ctx, admin.AssetsParams{
		AssetType:    api.AssetType(resourceType(opts.ResourceType)),
		DeliveryType: string(api.Upload),
		Prefix:       opts.Prefix,
		MaxResults:   opts.Max,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrEmptyResult
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}

	out := make([]ports.RemoteAsset, 0, len(res.Assets))
	for _, a := range res.Assets {
		out = append(out, ports.RemoteAsset{
			PublicID:  a.PublicID,
			SecureURL: a.SecureURL,
			Bytes:     int64(a.Bytes),
		})
	}
	return out, nil
}

func resourceType(t string) string {
	if t == "" {
		return string(api.Video)
	}
	return t
}
