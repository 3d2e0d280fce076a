package services

import (
	"fmt"
	"sort"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

// PromoteService copies side-car URLs into the catalog's destination table
type PromoteService struct {
	catalog  ports.Catalog
	promoter ports.CatalogPromoter
	sidecar  ports.Sidecar
}

// NewPromoteService creates a new promote service
func NewPromoteService(catalog ports.Catalog, promoter ports.CatalogPromoter, sidecar ports.Sidecar) *PromoteService {
	return &PromoteService{
		catalog:  catalog,
		promoter: promoter,
		sidecar:  sidecar,
	}
}

// PromoteRequest represents a promotion into the catalog at Path
type PromoteRequest struct {
	Path   string
	DryRun bool
}

// PromoteResponse lists what changed, keys sorted
type PromoteResponse struct {
	Added     []string
	Updated   []string
	Unchanged []string
	Unknown   []string
	Written   bool
}

// Execute reads the side-car and merges it into the catalog file
func (s *PromoteService) Execute(req PromoteRequest) (*PromoteResponse, error) {
	mapping, err := s.sidecar.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read side-car %s: %w", s.sidecar.Path(), err)
	}

	current := s.catalog.Addresses(domain.StoreBlob)
	resp := &PromoteResponse{}
	changes := map[string]string{}

	for key, url := range mapping {
		if _, ok := s.catalog.Find(key); !ok {
			resp.Unknown = append(resp.Unknown, key)
			continue
		}
		old, exists := current[key]
		switch {
		case !exists:
			resp.Added = append(resp.Added, key)
			changes[key] = url
		case old != url:
			resp.Updated = append(resp.Updated, key)
			changes[key] = url
		default:
			resp.Unchanged = append(resp.Unchanged, key)
		}
	}

	sort.Strings(resp.Added)
	sort.Strings(resp.Updated)
	sort.Strings(resp.Unchanged)
	sort.Strings(resp.Unknown)

	if req.DryRun || len(changes) == 0 {
		return resp, nil
	}

	if _, err := s.promoter.PromoteTo(req.Path, changes); err != nil {
		return resp, fmt.Errorf("failed to save catalog: %w", err)
	}
	resp.Written = true

	return resp, nil
}
