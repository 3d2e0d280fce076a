package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/core/ports"
)

var ErrTooLarge = errors.New("response too large")

// HTTPFetcher implements the Fetcher port with a bounded in-memory download
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	log      logrus.FieldLogger
}

// NewHTTPFetcher creates a fetcher. maxBytes <= 0 disables the size limit.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64, log logrus.FieldLogger) *HTTPFetcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		log:      log,
	}
}

// Fetch downloads url fully. Non-2xx responses come back with their status and body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*ports.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, humanize.Bytes(uint64(resp.ContentLength)))
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: over %s", ErrTooLarge, humanize.Bytes(uint64(f.maxBytes)))
	}

	f.log.WithFields(logrus.Fields{
		"url":      url,
		"status":   resp.StatusCode,
		"bytes":    len(data),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("Fetched")

	return &ports.FetchResult{
		Data:       data,
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}, nil
}

// statusText strips the numeric code from resp.Status
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text != resp.Status && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
