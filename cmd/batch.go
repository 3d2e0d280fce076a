package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/logging"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

// runBatch executes entries through the runner and streams progress to stdout.
// Per-item failures only show up in the summary; the exit code stays 0.
func runBatch(ctx context.Context, executor services.Executor, req services.TransferRequest, entries []domain.AssetEntry) (*services.RunResponse, error) {
	batch, closePacer := newBatchService(executor, req.Mode == domain.ModeCompress)
	defer closePacer()

	progressChan := make(chan services.RunProgress, 1)
	resultChan := make(chan *services.RunResponse, 1)
	errorChan := make(chan error, 1)

	start := time.Now()
	go func() {
		resp, err := batch.Run(ctx, services.RunRequest{Entries: entries, Transfer: req}, progressChan)
		if err != nil {
			errorChan <- err
			return
		}
		resultChan <- resp
	}()

	for progress := range progressChan {
		if !progress.Done {
			percentage := float64(progress.Current-1) / float64(progress.Total) * 100
			fmt.Printf("\r%s %s", ui.CreateProgressBar(percentage, 30), ui.FormatMuted(truncate(progress.Entry.Key, 40)))
			continue
		}
		fmt.Printf("\r\033[K%s\n", ui.RenderResultLine(progress.Current, progress.Total, progress.Result))
	}

	var response *services.RunResponse
	select {
	case err := <-errorChan:
		fmt.Println()
		fmt.Println(ui.FormatError("Run failed"))
		return nil, err
	case response = <-resultChan:
	}

	fmt.Println()
	if response.Interrupted {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("Interrupted after %d of %d entries", len(response.Run.Results), len(entries))))
		fmt.Println()
	}
	fmt.Print(ui.RenderSummary(response.Summary, time.Since(start)))

	if response.SidecarPath != "" {
		fmt.Println()
		fmt.Println(ui.FormatSuccess("Destination URLs written to " + response.SidecarPath))
		fmt.Println(ui.FormatMuted("Run 'assetctl catalog promote' to copy them into the catalog"))
	}

	log := logging.ForRun(response.Run.ID, string(response.Run.Mode))
	for _, err := range response.PersistErrors {
		log.WithError(err).Error("Failed to persist run output")
		fmt.Println(ui.FormatWarning(err.Error()))
	}

	return response, nil
}

// truncate shortens s to maxLen, marking the cut with an ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
