package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var (
	migrateSkipExisting bool
	migrateSel          selection
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy CDN videos into blob storage",
	Long: `Download every catalog video from its current source and store it in
blob storage at videos/<key>.<ext>.

Paths are fixed and overwrite is allowed, so a second run writes the same
URLs. Successful destinations are written to the side-car report
(blob-urls.json by default); promote them into the catalog with
'assetctl catalog promote'.

Examples:
  assetctl migrate
  assetctl migrate --missing
  assetctl migrate --skip-existing --group our-work`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSkipExisting, "skip-existing", false, "Skip keys that already have a blob address")
	migrateSel.register(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	entries, err := migrateSel.entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(ui.FormatWarning("No entries selected"))
		return nil
	}

	// CDN URLs are synthesized from the cloud name, so it is required up front
	requireCredentials(cdnNameRequirement())
	deps := services.TransferDeps{
		Blob:    newBlobStore(),
		Fetcher: newFetcher(),
	}

	printSelection("Migrating to blob storage...", entries,
		"Blob store", appConfig.Blob.Kind,
		"Side-car", appWorkspace.SidecarPath,
		"Delay", appConfig.Delay(false).String(),
	)

	ctx, cancel := getContext()
	defer cancel()

	_, err = runBatch(ctx, newTransferService(deps), services.TransferRequest{
		Mode:         domain.ModeMigrate,
		SkipExisting: migrateSkipExisting,
	}, entries)
	return err
}
