package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var (
	compressForce bool
	compressSel   selection
)

var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Re-encode oversized local videos",
	Long: `Re-encode local videos above the size threshold (default 100 MB) with
ffmpeg into <name>_compressed<ext> next to the original.

Originals are never modified. A failed encode removes its partial output.
The original and compressed sizes are reported per file.

Examples:
  assetctl compress
  assetctl compress --force --key collab/erasavir/ad-cta`,
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().BoolVarP(&compressForce, "force", "f", false, "Re-encode regardless of size")
	compressSel.register(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	entries, err := compressSel.entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(ui.FormatWarning("No entries selected"))
		return nil
	}

	deps := services.TransferDeps{Encoder: newEncoder(true)}

	threshold := fmt.Sprintf("%d MB", appConfig.Encoder.ThresholdMB)
	if compressForce {
		threshold = "none (--force)"
	}
	printSelection("Compressing videos...", entries,
		"Threshold", threshold,
		"Encoder", fmt.Sprintf("%s %s crf %d", appConfig.Encoder.Binary, appConfig.Encoder.VideoCodec, appConfig.Encoder.CRF),
		"Delay", appConfig.Delay(true).String(),
	)

	ctx, cancel := getContext()
	defer cancel()

	_, err = runBatch(ctx, newTransferService(deps), services.TransferRequest{
		Mode:  domain.ModeCompress,
		Force: compressForce,
	}, entries)
	return err
}
