package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunRecord is one entry of the append-only run log
type RunRecord struct {
	ID         string           `json:"id"`
	Mode       Mode             `json:"mode"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Results    []TransferResult `json:"results"`
}

// NewRunRecord starts a run with a fresh id
func NewRunRecord(mode Mode, now time.Time) *RunRecord {
	return &RunRecord{
		ID:        uuid.NewString(),
		Mode:      mode,
		StartedAt: now.UTC(),
		Results:   []TransferResult{},
	}
}

// RunSummary partitions a run's results by status
type RunSummary struct {
	Total     int
	Succeeded []TransferResult
	Failed    []TransferResult
	Skipped   []TransferResult
	Bytes     int64
}

// Summary partitions the results by status, keeping input order
func (r *RunRecord) Summary() RunSummary {
	s := RunSummary{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Status {
		case StatusSuccess:
			s.Succeeded = append(s.Succeeded, res)
			s.Bytes += res.BytesTransferred
		case StatusSkipped:
			s.Skipped = append(s.Skipped, res)
		default:
			s.Failed = append(s.Failed, res)
		}
	}
	return s
}

// DestinationMapping returns key -> destination URL for successful items
func (r *RunRecord) DestinationMapping() map[string]string {
	m := make(map[string]string)
	for _, res := range r.Results {
		if res.Succeeded() && res.DestinationURL != "" {
			m[res.Key] = res.DestinationURL
		}
	}
	return m
}
