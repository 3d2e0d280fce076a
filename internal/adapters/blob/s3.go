package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

// S3Store implements the BlobStore port on any S3-compatible bucket
type S3Store struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	log           logrus.FieldLogger
}

// S3Options configures an S3Store
type S3Options struct {
	Endpoint      string
	Bucket        string
	Region        string
	Secure        bool
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// NewS3Store creates an S3 client for one bucket
func NewS3Store(opts S3Options, log logrus.FieldLogger) (*S3Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Region: opts.Region,
		Secure: opts.Secure,
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure s3: %w", err)
	}
	return &S3Store{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
		log:           log,
	}, nil
}

// Put writes data at pathname, overwriting any existing object
func (s *S3Store) Put(ctx context.Context, pathname string, data []byte, opts ports.PutOptions) (*ports.PutResult, error) {
	if opts.Access != "" && opts.Access != "public" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAccess, opts.Access)
	}
	name := strings.TrimPrefix(pathname, "/")

	s.log.WithFields(logrus.Fields{"bucket": s.bucket, "object": name, "bytes": len(data)}).Debug("Putting object")

	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	if err != nil {
		return nil, err
	}

	return &ports.PutResult{URL: s.ObjectURL(name), Pathname: name}, nil
}

// ObjectURL returns the public URL of an object
func (s *S3Store) ObjectURL(name string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + name
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, name)
}
