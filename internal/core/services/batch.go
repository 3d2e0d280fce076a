package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/ports"
	"github.com/kamal-hamza/assetctl/pkg/queue"
)

// Pacer runs tasks one at a time with a delay between paced tasks
type Pacer interface {
	Do(ctx context.Context, task queue.Task) error
}

// Executor performs one transfer
type Executor interface {
	Execute(ctx context.Context, entry domain.AssetEntry, req TransferRequest) domain.TransferResult
}

// BatchService drives the executor over a list of entries, strictly in order
type BatchService struct {
	executor Executor
	pacer    Pacer
	runLog   ports.RunLog
	sidecar  ports.Sidecar
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewBatchService creates a new batch runner. runLog and sidecar may be nil
// interfaces to skip persistence; a nil *FileRunLog wrapped in ports.RunLog
// is not nil and will be called.
func NewBatchService(executor Executor, pacer Pacer, runLog ports.RunLog, sidecar ports.Sidecar, log logrus.FieldLogger) *BatchService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BatchService{
		executor: executor,
		pacer:    pacer,
		runLog:   runLog,
		sidecar:  sidecar,
		log:      log,
		now:      time.Now,
	}
}

// RunRequest represents a batch over a catalog subset
type RunRequest struct {
	Entries  []domain.AssetEntry
	Transfer TransferRequest
}

// RunResponse represents the outcome of a batch
type RunResponse struct {
	Run     *domain.RunRecord
	Summary domain.RunSummary

	// Interrupted is set when the context ended before every entry ran
	Interrupted bool

	// SidecarPath is set when a side-car report was written
	SidecarPath string

	// PersistErrors collects side-car and run log failures; they don't fail the run
	PersistErrors []error
}

// RunProgress is sent before (Done=false) and after (Done=true) each item
type RunProgress struct {
	Current int
	Total   int
	Entry   domain.AssetEntry
	Done    bool
	Result  domain.TransferResult
}

// Run executes every entry once, in input order. Per-item failures become
// result records; Run itself only fails on nothing.
func (s *BatchService) Run(ctx context.Context, req RunRequest, progress chan<- RunProgress) (*RunResponse, error) {
	if progress != nil {
		defer close(progress)
	}

	run := domain.NewRunRecord(req.Transfer.Mode, s.now())
	log := s.log.WithFields(logrus.Fields{"run": run.ID, "mode": run.Mode})
	log.WithField("entries", len(req.Entries)).Info("Starting batch")

	resp := &RunResponse{Run: run}
	total := len(req.Entries)

	for i, entry := range req.Entries {
		var result domain.TransferResult

		err := s.pacer.Do(ctx, func(ctx context.Context) bool {
			if progress != nil {
				progress <- RunProgress{Current: i + 1, Total: total, Entry: entry}
			}
			result = s.executor.Execute(ctx, entry, req.Transfer)
			return result.Succeeded()
		})
		if err != nil {
			log.WithError(err).Warn("Batch interrupted")
			resp.Interrupted = true
			break
		}

		run.Results = append(run.Results, result)
		if progress != nil {
			progress <- RunProgress{Current: i + 1, Total: total, Entry: entry, Done: true, Result: result}
		}
	}

	run.FinishedAt = s.now().UTC()
	resp.Summary = run.Summary()

	if run.Mode == domain.ModeMigrate {
		s.writeSidecar(run, resp, log)
	}

	if s.runLog != nil {
		if err := s.runLog.Append(ctx, run); err != nil {
			log.WithError(err).Warn("Failed to append run log")
			resp.PersistErrors = append(resp.PersistErrors, err)
		}
	}

	log.WithFields(logrus.Fields{
		"succeeded": len(resp.Summary.Succeeded),
		"failed":    len(resp.Summary.Failed),
		"skipped":   len(resp.Summary.Skipped),
	}).Info("Batch finished")

	return resp, nil
}

// writeSidecar merges this run's successes into the existing report
func (s *BatchService) writeSidecar(run *domain.RunRecord, resp *RunResponse, log logrus.FieldLogger) {
	mapping := run.DestinationMapping()
	if s.sidecar == nil || len(mapping) == 0 {
		return
	}

	merged := map[string]string{}
	if existing, err := s.sidecar.Read(); err == nil {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range mapping {
		merged[k] = v
	}

	if err := s.sidecar.Write(merged); err != nil {
		log.WithError(err).Warn("Failed to write side-car report")
		resp.PersistErrors = append(resp.PersistErrors, err)
		return
	}
	resp.SidecarPath = s.sidecar.Path()
}
