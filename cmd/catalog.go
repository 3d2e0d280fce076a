package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/internal/core/services"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var (
	catalogListSel  selection
	catalogListKeys bool
	promoteDryRun   bool
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"cat"},
	Short:   "Inspect and update the asset catalog",
	Long: `Inspect and update the asset catalog.

The catalog is read from --catalog, else <workspace>/catalog.yaml, else the
built-in list. (alias: cat)`,
}

var catalogListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog entries",
	RunE:    runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show one entry with its local file and addresses",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Copy side-car destination URLs into the catalog",
	Long: `Read the side-car report written by 'assetctl migrate' and merge its
URLs into the catalog's blob address table, then save the catalog.

Keys the catalog doesn't know are reported and ignored.`,
	RunE: runCatalogPromote,
}

func init() {
	catalogListSel.register(catalogListCmd)
	catalogListCmd.Flags().BoolVar(&catalogListKeys, "keys", false, "Print keys only, one per line")
	catalogPromoteCmd.Flags().BoolVarP(&promoteDryRun, "dry-run", "n", false, "Show what would change without writing")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogBrowseCmd)
	catalogCmd.AddCommand(catalogPromoteCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	entries, err := catalogListSel.entries()
	if err != nil {
		return err
	}

	if catalogListKeys {
		for _, e := range entries {
			fmt.Println(e.Key)
		}
		return nil
	}

	if len(entries) == 0 {
		fmt.Println(ui.FormatWarning("No entries found"))
		return nil
	}

	blob := appCatalog.Addresses(domain.StoreBlob)
	table := ui.NewTable([]ui.TableColumn{
		{Header: "Key"},
		{Header: "Category"},
		{Header: "Local", Align: "right"},
		{Header: "Blob", Align: "center"},
	})
	for _, e := range entries {
		table.AddRow([]string{e.Key, e.Category, localSize(e), mark(blob[e.Key] != "")})
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Catalog (%d entries)", len(entries))))
	fmt.Println(ui.FormatMuted(appCatalog.Source()))
	fmt.Println()
	fmt.Print(table.Render())

	printSharedPaths()
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	e, ok := appCatalog.Find(args[0])
	if !ok {
		return fmt.Errorf("unknown key: %s", args[0])
	}

	fmt.Println(ui.FormatTitle(e.Title))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Key", e.Key))
	fmt.Println(ui.RenderKeyValue("Category", e.Category))
	fmt.Println(ui.RenderKeyValue("Size hint", string(e.SizeHint)))
	if e.Description != "" {
		fmt.Println(ui.RenderKeyValue("Description", e.Description))
	}
	fmt.Println()

	if e.LocalPath != "" {
		fmt.Println(ui.RenderKeyValue("Local path", e.LocalPath))
		fmt.Println(ui.RenderKeyValue("Local size", localSize(e)))
	} else {
		fmt.Println(ui.RenderKeyValue("Local path", ui.FormatMuted("(none)")))
	}
	if e.SourceLocator != "" {
		fmt.Println(ui.RenderKeyValue("Source", e.SourceLocator))
	}
	fmt.Println()

	for _, store := range []domain.Store{domain.StoreCDN, domain.StoreBlob} {
		addr := appCatalog.Addresses(store)[e.Key]
		if addr == "" {
			addr = ui.FormatMuted("(not promoted)")
		}
		fmt.Println(ui.RenderKeyValue("Address "+string(store), addr))
	}
	fmt.Println(ui.RenderKeyValue("Resolves to", resolver.Resolve(e, domain.StoreBlob)))

	return nil
}

func runCatalogPromote(cmd *cobra.Command, args []string) error {
	path := catalogWritePath()
	svc := services.NewPromoteService(appCatalog, appCatalog, sidecar)

	resp, err := svc.Execute(services.PromoteRequest{Path: path, DryRun: promoteDryRun})
	if err != nil {
		fmt.Println(ui.FormatError("Promotion failed"))
		return err
	}

	fmt.Println(ui.RenderKeyValue("Side-car", sidecar.Path()))
	fmt.Println(ui.RenderKeyValue("Catalog", path))
	fmt.Println(ui.RenderKeyValue("Added", fmt.Sprintf("%d", len(resp.Added))))
	fmt.Println(ui.RenderKeyValue("Updated", fmt.Sprintf("%d", len(resp.Updated))))
	fmt.Println(ui.RenderKeyValue("Unchanged", fmt.Sprintf("%d", len(resp.Unchanged))))

	if len(resp.Unknown) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d keys not in the catalog were ignored:", len(resp.Unknown))))
		fmt.Print(ui.RenderSimpleList(resp.Unknown))
	}

	fmt.Println()
	switch {
	case promoteDryRun:
		fmt.Println(ui.FormatInfo("Dry run, nothing written"))
	case resp.Written:
		fmt.Println(ui.FormatSuccess("Catalog updated"))
	default:
		fmt.Println(ui.FormatInfo("Catalog already up to date"))
	}

	return nil
}

// localSize reports the on-disk size of an entry's local file
func localSize(e domain.AssetEntry) string {
	if e.LocalPath == "" {
		return "-"
	}
	info, err := os.Stat(appWorkspace.MediaPath(e.LocalPath))
	if err != nil {
		return "missing"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func mark(ok bool) string {
	if ok {
		return ui.IconSuccess
	}
	return "·"
}

// printSharedPaths warns when several keys upload the same file
func printSharedPaths() {
	shared := appCatalog.SharedPaths()
	if len(shared) == 0 {
		return
	}

	paths := make([]string, 0, len(shared))
	for p := range shared {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fmt.Println()
	fmt.Println(ui.FormatWarning("Local files used by more than one key:"))
	for _, p := range paths {
		fmt.Println(ui.FormatMuted("  • " + p + ": " + strings.Join(shared[p], ", ")))
	}
}
