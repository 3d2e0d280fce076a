package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var (
	uploadTarget   string
	uploadCompress bool
	uploadSel      selection
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload local videos to the media CDN (or blob storage)",
	Long: `Upload every catalog entry that has a local file.

Each file is uploaded under its catalog key with overwrite enabled, so
re-running an upload replaces the same objects. Entries whose local
file is missing are reported as failed; entries without a local path
are skipped. One request is in flight at a time, with a fixed pause
after every successful upload.

Examples:
  assetctl upload
  assetctl upload --group collab/urban-needs
  assetctl upload --compress
  assetctl upload --to blob --key our-work/ugc/cta-ad`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadTarget, "to", "t", string(domain.StoreCDN), "Destination store (cdn or blob)")
	uploadCmd.Flags().BoolVarP(&uploadCompress, "compress", "c", false, "Re-encode files above the size threshold before uploading")
	uploadSel.register(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	target, err := domain.ParseStore(uploadTarget)
	if err != nil {
		return err
	}

	entries, err := uploadSel.entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(ui.FormatWarning("No entries selected"))
		return nil
	}

	deps := services.TransferDeps{}
	switch target {
	case domain.StoreCDN:
		deps.Media = newMediaStore()
	case domain.StoreBlob:
		deps.Blob = newBlobStore()
	}
	if uploadCompress {
		deps.Encoder = newEncoder(true)
	}

	compress := "off"
	if uploadCompress {
		compress = fmt.Sprintf("above %d MB", appConfig.Encoder.ThresholdMB)
	}
	printSelection("Uploading to "+string(target)+"...", entries,
		"Compression", compress,
		"Delay", appConfig.Delay(false).String(),
	)

	ctx, cancel := getContext()
	defer cancel()

	_, err = runBatch(ctx, newTransferService(deps), services.TransferRequest{
		Mode:     domain.ModeUpload,
		Target:   target,
		Compress: uploadCompress,
	}, entries)
	return err
}
