package cmd

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var (
	resolveStore string
	resolveCopy  bool
	resolveAll   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [key]",
	Short: "Print the playable URL of a catalog entry",
	Long: `Resolve a catalog key to the URL the site should play.

Resolution order: the blob address table, the preferred store's table,
the entry's source locator, the CDN URL template and finally the
placeholder. Blob URLs only come from the address table, so an entry that
hasn't been promoted resolves to the CDN. Resolution never fails.

Without a key an interactive picker opens.

Examples:
  assetctl resolve collab/urban-needs/product-1
  assetctl resolve --store cdn --copy
  assetctl resolve --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveStore, "store", "s", string(domain.StoreBlob), "Preferred store (cdn or blob)")
	resolveCmd.Flags().BoolVarP(&resolveCopy, "copy", "c", false, "Copy the URL to the clipboard")
	resolveCmd.Flags().BoolVarP(&resolveAll, "all", "a", false, "Resolve every entry")
}

func runResolve(cmd *cobra.Command, args []string) error {
	store, err := domain.ParseStore(resolveStore)
	if err != nil {
		return err
	}

	if resolveAll {
		table := ui.NewTable([]ui.TableColumn{{Header: "Key"}, {Header: "URL"}})
		for _, e := range appCatalog.ListAll() {
			table.AddRow([]string{e.Key, resolver.Resolve(e, store)})
		}
		fmt.Print(table.Render())
		return nil
	}

	var entry *domain.AssetEntry
	if len(args) == 0 {
		entries := appCatalog.ListAll()
		if len(entries) == 0 {
			fmt.Println(ui.FormatWarning("Catalog is empty"))
			return nil
		}
		entry, err = pickOne(entries)
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		if err != nil {
			return err
		}
	} else {
		e, ok := appCatalog.Find(args[0])
		if !ok {
			return fmt.Errorf("unknown key: %s", args[0])
		}
		entry = &e
	}

	url := resolver.Resolve(*entry, store)
	fmt.Println(url)

	if resolveCopy {
		if err := clipboard.WriteAll(url); err != nil {
			fmt.Println(ui.FormatWarning("Failed to copy to clipboard: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Copied to clipboard"))
		}
	}

	return nil
}
