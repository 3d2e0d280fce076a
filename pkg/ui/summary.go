package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
)

// RenderResultLine renders one finished item for the progress stream
func RenderResultLine(current, total int, res domain.TransferResult) string {
	counter := StyleMuted.Render(fmt.Sprintf("[%d/%d]", current, total))

	switch res.Status {
	case domain.StatusSuccess:
		detail := res.DestinationURL
		if res.OriginalBytes > 0 {
			detail = fmt.Sprintf("%s → %s (%.1f%% smaller)",
				humanize.Bytes(uint64(res.OriginalBytes)),
				humanize.Bytes(uint64(res.BytesTransferred)),
				res.Reduction())
		} else if res.BytesTransferred > 0 {
			detail = fmt.Sprintf("%s %s", humanize.Bytes(uint64(res.BytesTransferred)), StyleMuted.Render(res.DestinationURL))
		}
		return fmt.Sprintf("%s %s %s %s", counter, FormatSuccess(res.Key), StyleMuted.Render("·"), detail)
	case domain.StatusSkipped:
		return fmt.Sprintf("%s %s %s", counter, FormatSkipped(res.Key), StyleMuted.Render(res.Error))
	default:
		return fmt.Sprintf("%s %s %s", counter, FormatError(res.Key), res.Error)
	}
}

// RenderSummary renders the end-of-run totals and the failed keys with their messages
func RenderSummary(s domain.RunSummary, elapsed time.Duration) string {
	var b strings.Builder

	b.WriteString(FormatTitle("Summary"))
	b.WriteString("\n")
	b.WriteString(RenderKeyValue("Successful", StyleSuccess.Render(fmt.Sprintf("%d/%d", len(s.Succeeded), s.Total))))
	b.WriteString("\n")

	failed := fmt.Sprintf("%d/%d", len(s.Failed), s.Total)
	if len(s.Failed) > 0 {
		failed = StyleError.Render(failed)
	}
	b.WriteString(RenderKeyValue("Failed", failed))
	b.WriteString("\n")

	if len(s.Skipped) > 0 {
		b.WriteString(RenderKeyValue("Skipped", fmt.Sprintf("%d/%d", len(s.Skipped), s.Total)))
		b.WriteString("\n")
	}
	if s.Bytes > 0 {
		b.WriteString(RenderKeyValue("Transferred", humanize.Bytes(uint64(s.Bytes))))
		b.WriteString("\n")
	}
	if elapsed > 0 {
		b.WriteString(RenderKeyValue("Elapsed", elapsed.Round(time.Millisecond).String()))
		b.WriteString("\n")
	}

	if len(s.Failed) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWarning("Failed items:"))
		b.WriteString("\n")
		for _, r := range s.Failed {
			b.WriteString(FormatMuted("  • " + r.Key + ": " + r.Error))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// CreateProgressBar creates an ASCII progress bar
func CreateProgressBar(percentage float64, width int) string {
	filled := int(percentage / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return StyleAccent.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}
