package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

var (
	ErrMissingToken      = errors.New("blob token is empty")
	ErrUnsupportedAccess = errors.New("unsupported blob access")
)

// VercelStore implements the BlobStore port against the Vercel Blob HTTP API
type VercelStore struct {
	client     *http.Client
	apiURL     string
	apiVersion string
	token      string
	log        logrus.FieldLogger
}

// VercelOptions configures a VercelStore
type VercelOptions struct {
	APIURL     string
	APIVersion string
	Token      string
	Timeout    time.Duration
	Client     *http.Client
}

// NewVercelStore creates a Vercel Blob client
func NewVercelStore(opts VercelOptions, log logrus.FieldLogger) (*VercelStore, error) {
	if opts.Token == "" {
		return nil, ErrMissingToken
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &VercelStore{
		client:     client,
		apiURL:     strings.TrimSuffix(opts.APIURL, "/"),
		apiVersion: opts.APIVersion,
		token:      opts.Token,
		log:        log,
	}, nil
}

type putResponse struct {
	URL      string `json:"url"`
	Pathname string `json:"pathname"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Put uploads data at pathname. An existing object at the same pathname is replaced.
func (s *VercelStore) Put(ctx context.Context, pathname string, data []byte, opts ports.PutOptions) (*ports.PutResult, error) {
	if opts.Access != "" && opts.Access != "public" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAccess, opts.Access)
	}

	endpoint := s.apiURL + "/" + (&url.URL{Path: strings.TrimPrefix(pathname, "/")}).EscapedPath()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	req.ContentLength = int64(len(data))
	req.Header.Set("authorization", "Bearer "+s.token)
	req.Header.Set("x-api-version", s.apiVersion)
	req.Header.Set("x-add-random-suffix", boolHeader(opts.AddRandomSuffix))
	req.Header.Set("x-allow-overwrite", "1")
	if opts.ContentType != "" {
		req.Header.Set("x-content-type", opts.ContentType)
	}

	s.log.WithFields(logrus.Fields{"pathname": pathname, "bytes": len(data)}).Debug("Putting blob")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp, body)
	}

	var out putResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if out.URL == "" {
		return nil, errors.New("response has no url")
	}

	return &ports.PutResult{URL: out.URL, Pathname: out.Pathname}, nil
}

func statusError(resp *http.Response, body []byte) error {
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return fmt.Errorf("%s: %s", resp.Status, e.Error.Message)
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return errors.New(resp.Status)
	}
	return fmt.Errorf("%s: %s", resp.Status, msg)
}

func boolHeader(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
