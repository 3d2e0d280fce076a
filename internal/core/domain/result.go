package domain

import (
	"fmt"
	"time"
)

// Status is the outcome of one transfer
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Mode selects what the batch runner does with each entry
type Mode string

const (
	ModeUpload   Mode = "upload"
	ModeMigrate  Mode = "migrate"
	ModeCompress Mode = "compress"
)

// Store identifies one of the two hosting providers
type Store string

const (
	StoreCDN  Store = "cdn"
	StoreBlob Store = "blob"
)

// ParseStore converts a flag value into a Store
func ParseStore(s string) (Store, error) {
	switch Store(s) {
	case StoreCDN, StoreBlob:
		return Store(s), nil
	}
	return "", fmt.Errorf("unknown store %q (expected cdn or blob)", s)
}

// TransferResult is the outcome of one executor invocation
type TransferResult struct {
	Key              string        `json:"key"`
	Status           Status        `json:"status"`
	Error            string        `json:"error,omitempty"`
	DestinationURL   string        `json:"destination_url,omitempty"`
	BytesTransferred int64         `json:"bytes,omitempty"`
	Duration         time.Duration `json:"duration_ns,omitempty"`

	// Set by compress mode only
	OriginalBytes int64  `json:"original_bytes,omitempty"`
	OutputPath    string `json:"output_path,omitempty"`
}

// Succeeded is a convenience for Status == StatusSuccess
func (r TransferResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// SizeMB renders the transferred size for display
func (r TransferResult) SizeMB() string {
	return FormatMB(r.BytesTransferred)
}

// Reduction returns the compression gain in percent, or 0 if unknown
func (r TransferResult) Reduction() float64 {
	if r.OriginalBytes <= 0 || r.BytesTransferred <= 0 {
		return 0
	}
	return (1 - float64(r.BytesTransferred)/float64(r.OriginalBytes)) * 100
}

// FormatMB renders a byte count as megabytes with two decimals
func FormatMB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// Failed builds a failed result
func Failed(key string, err error) TransferResult {
	return TransferResult{Key: key, Status: StatusFailed, Error: err.Error()}
}

// Skipped builds a skipped result
func Skipped(key, reason string) TransferResult {
	return TransferResult{Key: key, Status: StatusSkipped, Error: reason}
}
