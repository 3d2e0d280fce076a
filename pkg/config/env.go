package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names read by the pipeline
const (
	EnvCloudName       = "CLOUDINARY_CLOUD_NAME"
	EnvCloudNameLegacy = "NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME"
	EnvCloudAPIKey     = "CLOUDINARY_API_KEY"
	EnvCloudAPISecret  = "CLOUDINARY_API_SECRET"
	EnvBlobToken       = "BLOB_READ_WRITE_TOKEN"
	EnvS3AccessKey     = "BLOB_S3_ACCESS_KEY"
	EnvS3SecretKey     = "BLOB_S3_SECRET_KEY"
)

var ErrMissingCredentials = errors.New("missing credentials")

// Requirement names one credential a command needs
type Requirement struct {
	Name    string
	Aliases []string
	Help    string
}

// Credentials holds every value CheckEnv found, keyed by the canonical name
type Credentials map[string]string

// Get returns a credential or ""
func (c Credentials) Get(name string) string {
	return c[name]
}

// EnvResult is the outcome of a credential check: either all present or a list of missing names
type EnvResult struct {
	Credentials Credentials
	Missing     []Requirement
}

// Ok reports whether every requirement was satisfied
func (r EnvResult) Ok() bool {
	return len(r.Missing) == 0
}

// MissingNames returns the names of the missing variables
func (r EnvResult) MissingNames() []string {
	names := make([]string, 0, len(r.Missing))
	for _, m := range r.Missing {
		names = append(names, m.Name)
	}
	return names
}

// Err returns nil when every requirement was met, otherwise an error wrapping
// ErrMissingCredentials that names the missing variables
func (r EnvResult) Err() error {
	if r.Ok() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(r.MissingNames(), ", "))
}

// CheckEnv resolves every requirement through lookup (usually os.LookupEnv)
func CheckEnv(lookup func(string) (string, bool), reqs []Requirement) EnvResult {
	res := EnvResult{Credentials: Credentials{}}

	for _, req := range reqs {
		value := ""
		for _, name := range append([]string{req.Name}, req.Aliases...) {
			if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
				value = strings.TrimSpace(v)
				break
			}
		}

		if value == "" {
			res.Missing = append(res.Missing, req)
			continue
		}
		res.Credentials[req.Name] = value
	}

	return res
}

// CloudName is the only value needed to synthesize CDN URLs
var CloudName = Requirement{
	Name:    EnvCloudName,
	Aliases: []string{EnvCloudNameLegacy},
	Help:    "Cloudinary cloud name (dashboard > Product Environment)",
}

// CDNRequirements returns what the media CDN API needs
func CDNRequirements() []Requirement {
	return []Requirement{
		CloudName,
		{Name: EnvCloudAPIKey, Help: "Cloudinary API key"},
		{Name: EnvCloudAPISecret, Help: "Cloudinary API secret"},
	}
}

// BlobRequirements returns what the configured blob store needs
func BlobRequirements(kind string) []Requirement {
	if kind == "s3" {
		return []Requirement{
			{Name: EnvS3AccessKey, Help: "S3 access key id"},
			{Name: EnvS3SecretKey, Help: "S3 secret access key"},
		}
	}
	return []Requirement{
		{Name: EnvBlobToken, Help: "Vercel Blob read/write token (Storage > Blob > .env.local)"},
	}
}

// LoadDotEnv loads .env.local then .env from dir when present.
// Variables already set in the process environment are never overridden.
func LoadDotEnv(dir string) ([]string, error) {
	var loaded []string

	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, err
		}
		loaded = append(loaded, path)
	}

	return loaded, nil
}
