package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var catalogBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long: `Browse catalog entries with their local size and resolved URL.

Controls:
  - ↑/↓   : Navigate
  - Enter : Copy the resolved URL
  - c/b   : Prefer the cdn / blob store
  - q     : Quit`,
	RunE: runCatalogBrowse,
}

func runCatalogBrowse(cmd *cobra.Command, args []string) error {
	entries := appCatalog.ListAll()
	if len(entries) == 0 {
		fmt.Println(ui.FormatWarning("Catalog is empty"))
		return nil
	}

	p := tea.NewProgram(initialBrowseModel(entries))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// --- TUI Model ---

type browseModel struct {
	table   table.Model
	entries []domain.AssetEntry
	store   domain.Store
	status  string
}

func initialBrowseModel(entries []domain.AssetEntry) browseModel {
	columns := []table.Column{
		{Title: "Key", Width: 46},
		{Title: "Category", Width: 22},
		{Title: "Local", Width: 10},
		{Title: "Blob", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(browseRows(entries)),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ui.ColorDefault).
		Background(ui.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	return browseModel{
		table:   t,
		entries: entries,
		store:   domain.StoreBlob,
	}
}

func browseRows(entries []domain.AssetEntry) []table.Row {
	blob := appCatalog.Addresses(domain.StoreBlob)
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			truncate(e.Key, 46),
			truncate(e.Category, 22),
			localSize(e),
			mark(blob[e.Key] != ""),
		})
	}
	return rows
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if e, ok := m.selected(); ok {
				url := resolver.Resolve(e, m.store)
				if err := clipboard.WriteAll(url); err != nil {
					m.status = ui.FormatError("Copy failed: " + err.Error())
				} else {
					m.status = ui.FormatSuccess("Copied " + url)
				}
			}
			return m, nil

		case "c":
			m.store = domain.StoreCDN
			m.status = ""
		case "b":
			m.store = domain.StoreBlob
			m.status = ""
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) selected() (domain.AssetEntry, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return domain.AssetEntry{}, false
	}
	return m.entries[idx], true
}

func (m browseModel) View() string {
	detail := ""
	if e, ok := m.selected(); ok {
		detail = ui.StyleBold.Render(e.Title) + "\n" +
			ui.RenderKeyValue("URL ("+string(m.store)+")", resolver.Resolve(e, m.store))
	}

	view := "\n" +
		ui.StyleTitle.Render(fmt.Sprintf(" %s Catalog (%d) ", ui.IconVideo, len(m.entries))) + "\n\n" +
		m.table.View() + "\n\n" +
		detail + "\n\n"
	if m.status != "" {
		view += m.status + "\n"
	}
	return view + ui.FormatMuted(" [Enter] Copy URL  [c/b] Prefer cdn/blob  [q] Quit") + "\n"
}
