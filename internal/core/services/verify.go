package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

// VerifyService lists what the media CDN actually holds
type VerifyService struct {
	media ports.MediaStore
	log   logrus.FieldLogger
}

// NewVerifyService creates a new verify service
func NewVerifyService(media ports.MediaStore, log logrus.FieldLogger) *VerifyService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &VerifyService{media: media, log: log}
}

// VerifyRequest represents a scan over CDN prefixes
type VerifyRequest struct {
	Prefixes     []string
	ResourceType string
	Max          int

	// Entries are cross-checked against the listing
	Entries []domain.AssetEntry
}

// FolderReport is the listing of one prefix
type FolderReport struct {
	Prefix string
	Assets []ports.RemoteAsset
	Error  error
}

// VerifyResponse represents the outcome of a scan
type VerifyResponse struct {
	Folders []FolderReport

	// Present and Missing are catalog keys under a successfully listed prefix
	Present []string
	Missing []string

	// Unchecked are catalog keys no successful listing covered
	Unchecked []string
}

// Execute lists every prefix. A listing error is recorded for its folder and the scan goes on.
func (s *VerifyService) Execute(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	if s.media == nil {
		return nil, fmt.Errorf("cdn %w", ErrStoreNotConfigured)
	}

	resp := &VerifyResponse{}
	listed := map[string]bool{}
	var scanned []string

	for _, prefix := range req.Prefixes {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		assets, err := s.media.List(ctx, ports.ListOptions{
			ResourceType: req.ResourceType,
			Prefix:       prefix,
			Max:          req.Max,
		})
		resp.Folders = append(resp.Folders, FolderReport{Prefix: prefix, Assets: assets, Error: err})

		if err != nil {
			s.log.WithError(err).WithField("prefix", prefix).Warn("Failed to list folder")
			continue
		}
		scanned = append(scanned, prefix)
		for _, a := range assets {
			listed[a.PublicID] = true
		}
	}

	for _, e := range req.Entries {
		switch {
		case listed[e.Key]:
			resp.Present = append(resp.Present, e.Key)
		case covered(e.Key, scanned):
			resp.Missing = append(resp.Missing, e.Key)
		default:
			resp.Unchecked = append(resp.Unchecked, e.Key)
		}
	}

	return resp, nil
}

func covered(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
