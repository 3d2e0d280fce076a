package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var (
	checkPrefixes []string
	checkMax      int
	checkVerbose  bool
	checkSel      selection
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List what the media CDN holds per catalog folder",
	Long: `List the video resources stored on the media CDN under each catalog
folder (or the given prefixes) and compare them with the catalog.

A folder that fails to list is reported and the scan moves on.

Examples:
  assetctl check
  assetctl check --prefix collab/urban-needs --verbose`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkPrefixes, "prefix", nil, "Folders to list (default: config cdn.folders, else catalog folders)")
	checkCmd.Flags().IntVar(&checkMax, "max", 0, "Maximum resources per folder (default: config cdn.list_max)")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Show every resource")
	checkSel.register(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	entries, err := checkSel.entries()
	if err != nil {
		return err
	}

	prefixes := checkPrefixes
	if len(prefixes) == 0 {
		prefixes = appConfig.CDN.Folders
	}
	if len(prefixes) == 0 {
		prefixes = appCatalog.Folders()
	}
	limit := checkMax
	if limit <= 0 {
		limit = appConfig.CDN.ListMax
	}

	svc := services.NewVerifyService(newMediaStore(), appLog)

	fmt.Println(ui.FormatRocket("Checking media CDN..."))
	fmt.Println()

	ctx, cancel := getContext()
	defer cancel()

	resp, err := svc.Execute(ctx, services.VerifyRequest{
		Prefixes:     prefixes,
		ResourceType: appConfig.CDN.ResourceType,
		Max:          limit,
		Entries:      entries,
	})
	if err != nil && resp == nil {
		return err
	}

	for _, folder := range resp.Folders {
		if folder.Error != nil {
			fmt.Printf("%s %s\n", ui.FormatError("✘"), folder.Prefix)
			fmt.Printf("    %s\n", ui.StyleMuted.Render(folder.Error.Error()))
			continue
		}

		var total int64
		for _, a := range folder.Assets {
			total += a.Bytes
		}
		fmt.Printf("%s %s %s\n", ui.FormatSuccess("✔"), folder.Prefix,
			ui.StyleMuted.Render(fmt.Sprintf("(%d videos, %s)", len(folder.Assets), humanize.Bytes(uint64(total)))))

		if checkVerbose && len(folder.Assets) > 0 {
			table := ui.NewTable([]ui.TableColumn{
				{Header: "Public ID"},
				{Header: "Size", Align: "right"},
				{Header: "URL", MaxWidth: 72},
			})
			for _, a := range folder.Assets {
				table.AddRow([]string{a.PublicID, humanize.Bytes(uint64(a.Bytes)), a.SecureURL})
			}
			fmt.Println(table.Render())
		}
	}

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("In catalog and on CDN", fmt.Sprintf("%d", len(resp.Present))))
	if len(resp.Missing) > 0 {
		fmt.Println(ui.RenderKeyValue("Missing from CDN", ui.StyleError.Render(fmt.Sprintf("%d", len(resp.Missing)))))
		fmt.Print(ui.RenderSimpleList(resp.Missing))
	}
	if len(resp.Unchecked) > 0 {
		fmt.Println(ui.RenderKeyValue("Not covered by a listed folder", fmt.Sprintf("%d", len(resp.Unchecked))))
		fmt.Print(ui.RenderSimpleList(resp.Unchecked))
	}

	return err
}
