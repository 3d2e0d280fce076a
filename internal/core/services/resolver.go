package services

import (
	"net/url"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

// ResolverSettings configures URL synthesis for the legacy CDN. The
// destination store is only ever read from its address table.
type ResolverSettings struct {
	// CloudName enables the CDN template; empty means the CDN is not configured
	CloudName   string
	CDNTemplate string

	Placeholder string
}

// Resolver computes where an asset can be fetched from
type Resolver struct {
	catalog  ports.Catalog
	settings ResolverSettings
	log      logrus.FieldLogger
}

// NewResolver creates a resolver over the catalog's address tables
func NewResolver(catalog ports.Catalog, settings ResolverSettings, log logrus.FieldLogger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{
		catalog:  catalog,
		settings: settings,
		log:      log,
	}
}

// Resolve returns a public locator for entry. It never fails: when nothing
// is known about the entry the placeholder is returned and a warning logged.
//
// Order: destination table, preferred store table, source locator, CDN
// template, placeholder. A destination URL is never synthesized, so an
// entry that was not migrated keeps playing from the CDN.
func (r *Resolver) Resolve(entry domain.AssetEntry, preferred domain.Store) string {
	if u, ok := r.catalog.Addresses(domain.StoreBlob)[entry.Key]; ok && u != "" {
		return u
	}
	if preferred != domain.StoreBlob {
		if u, ok := r.catalog.Addresses(preferred)[entry.Key]; ok && u != "" {
			return u
		}
	}
	if entry.SourceLocator != "" {
		return entry.SourceLocator
	}
	if u, ok := r.CDNURL(entry.Key); ok {
		return u
	}

	r.log.WithFields(logrus.Fields{
		"key":   entry.Key,
		"store": preferred,
	}).Warn("No store configured for asset, using placeholder")
	return r.settings.Placeholder
}

// SourceURL returns where the migrator downloads entry from. Unlike Resolve it
// never consults the destination table and never falls back to the placeholder.
func (r *Resolver) SourceURL(entry domain.AssetEntry) (string, bool) {
	if u, ok := r.catalog.Addresses(domain.StoreCDN)[entry.Key]; ok && u != "" {
		return u, true
	}
	if entry.SourceLocator != "" {
		return entry.SourceLocator, true
	}
	return r.CDNURL(entry.Key)
}

// CDNURL synthesizes the CDN delivery URL for key, false when the CDN is not configured
func (r *Resolver) CDNURL(key string) (string, bool) {
	if r.settings.CloudName == "" || r.settings.CDNTemplate == "" {
		return "", false
	}
	return strings.NewReplacer(
		"{cloud}", r.settings.CloudName,
		"{key}", key,
	).Replace(r.settings.CDNTemplate), true
}

// Placeholder returns the sentinel locator
func (r *Resolver) Placeholder() string {
	return r.settings.Placeholder
}

// DestinationPath is the fixed blob path for a key, so repeated uploads overwrite
func DestinationPath(key, ext string) string {
	if ext == "" {
		ext = "mp4"
	}
	return "videos/" + key + "." + ext
}

// ExtFromURL returns the lower-case extension of a URL's path, "mp4" if it has none
func ExtFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return "mp4"
	}
	return strings.ToLower(ext)
}
