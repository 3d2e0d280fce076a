package cmd

import (
	"errors"
	"fmt"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/adapters/catalog"
	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

// selection holds the subset flags shared by the batch commands
type selection struct {
	group   string
	keys    []string
	missing bool
	pick    bool
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.group, "group", "g", "", "Only entries under this key prefix (e.g. collab/urban-needs)")
	cmd.Flags().StringSliceVarP(&s.keys, "key", "k", nil, "Only these keys (repeatable)")
	cmd.Flags().BoolVar(&s.missing, "missing", false, "Only entries without a blob address")
	cmd.Flags().BoolVarP(&s.pick, "pick", "p", false, "Choose entries interactively")
}

// entries applies the flags to the catalog. Unknown keys are a configuration error.
func (s *selection) entries() ([]domain.AssetEntry, error) {
	if unknown := appCatalog.UnknownKeys(s.keys); len(unknown) > 0 {
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}

	entries := appCatalog.Filter(catalog.Filter{
		Group:   s.group,
		Keys:    s.keys,
		Missing: s.missing,
	})

	if s.pick && len(entries) > 0 {
		return pickEntries(entries)
	}
	return entries, nil
}

// pickEntries lets the operator choose a subset with a fuzzy finder
func pickEntries(entries []domain.AssetEntry) ([]domain.AssetEntry, error) {
	idxs, err := fuzzyfinder.FindMulti(
		entries,
		func(i int) string { return entries[i].Key },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return entryPreview(entries[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return []domain.AssetEntry{}, nil
		}
		return nil, err
	}

	picked := make([]domain.AssetEntry, 0, len(idxs))
	for _, i := range idxs {
		picked = append(picked, entries[i])
	}
	return picked, nil
}

// pickOne selects a single entry, used by commands that take one key
func pickOne(entries []domain.AssetEntry) (*domain.AssetEntry, error) {
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string { return entries[i].Key },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return entryPreview(entries[i])
		}),
	)
	if err != nil {
		return nil, err
	}
	return &entries[idx], nil
}

func entryPreview(e domain.AssetEntry) string {
	local := e.LocalPath
	if local == "" {
		local = "(none)"
	}
	source := e.SourceLocator
	if source == "" {
		source = "(none)"
	}
	return fmt.Sprintf("%s\n\nKey: %s\nCategory: %s\nSize: %s\nLocal: %s\nSource: %s\n\n%s",
		e.Title, e.Key, e.Category, e.SizeHint, local, source, e.Description)
}

// printSelection shows what a batch is about to do
func printSelection(title string, entries []domain.AssetEntry, extra ...string) {
	fmt.Println(ui.FormatRocket(title))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Catalog", appCatalog.Source()))
	fmt.Println(ui.RenderKeyValue("Workspace", appWorkspace.RootPath))
	fmt.Println(ui.RenderKeyValue("Entries", fmt.Sprintf("%d", len(entries))))
	for i := 0; i+1 < len(extra); i += 2 {
		fmt.Println(ui.RenderKeyValue(extra[i], extra[i+1]))
	}
	fmt.Println()
}
