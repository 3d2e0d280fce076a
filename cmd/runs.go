package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetctl/internal/adapters/report"
	"github.com/kamal-hamza/assetctl/pkg/ui"
)

var (
	runsLimit     int
	runsChartOpen bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the history of batch runs",
	Long: `Every upload, migrate and compress run is appended to
.assetctl/runs.jsonl in the workspace.`,
}

var runsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded runs",
	RunE:    runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the results of a run (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunsShow,
}

var runsChartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render run outcomes as an HTML chart",
	RunE:  runRunsChart,
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Show only the most recent runs (0 for all)")
	runsChartCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Chart only the most recent runs (0 for all)")
	runsChartCmd.Flags().BoolVarP(&runsChartOpen, "open", "o", false, "Open the chart in the default browser")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsChartCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	runs, err := runLog.List(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(ui.FormatWarning("No runs recorded yet"))
		return nil
	}
	if runsLimit > 0 && len(runs) > runsLimit {
		runs = runs[len(runs)-runsLimit:]
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID"},
		{Header: "Mode"},
		{Header: "Started"},
		{Header: "OK", Align: "right"},
		{Header: "Failed", Align: "right"},
		{Header: "Skipped", Align: "right"},
		{Header: "Transferred", Align: "right"},
		{Header: "Took", Align: "right"},
	})
	for _, run := range runs {
		s := run.Summary()
		table.AddRow([]string{
			truncate(run.ID, 8),
			string(run.Mode),
			humanize.Time(run.StartedAt),
			fmt.Sprintf("%d/%d", len(s.Succeeded), s.Total),
			fmt.Sprintf("%d", len(s.Failed)),
			fmt.Sprintf("%d", len(s.Skipped)),
			humanize.Bytes(uint64(s.Bytes)),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
		})
	}

	fmt.Print(table.Render())
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	run, err := runLog.Find(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle("Run " + run.ID))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Mode", string(run.Mode)))
	fmt.Println(ui.RenderKeyValue("Started", run.StartedAt.Local().Format(time.RFC1123)))
	fmt.Println()
	for i, res := range run.Results {
		fmt.Println(ui.RenderResultLine(i+1, len(run.Results), res))
	}
	fmt.Println()
	fmt.Print(ui.RenderSummary(run.Summary(), run.FinishedAt.Sub(run.StartedAt)))
	return nil
}

func runRunsChart(cmd *cobra.Command, args []string) error {
	ctx, cancel := getContext()
	defer cancel()

	runs, err := runLog.List(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(ui.FormatWarning("No runs recorded yet"))
		return nil
	}
	if runsLimit > 0 && len(runs) > runsLimit {
		runs = runs[len(runs)-runsLimit:]
	}

	path := appWorkspace.ChartPath("runs.html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}
	defer f.Close()

	if err := report.RunsChart(f, runs); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Chart written to " + path))
	if runsChartOpen {
		return OpenFile(path, "")
	}
	return nil
}
