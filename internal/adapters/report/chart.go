package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/assetctl/internal/core/domain"
)

// RunsChart renders a stacked bar chart of per-run outcomes as a standalone HTML page
func RunsChart(w io.Writer, runs []domain.RunRecord) error {
	labels := make([]string, 0, len(runs))
	var succeeded, failed, skipped []opts.BarData
	var megabytes []opts.BarData

	for _, run := range runs {
		s := run.Summary()
		labels = append(labels, RunLabel(run))
		succeeded = append(succeeded, opts.BarData{Value: len(s.Succeeded)})
		failed = append(failed, opts.BarData{Value: len(s.Failed)})
		skipped = append(skipped, opts.BarData{Value: len(s.Skipped)})
		megabytes = append(megabytes, opts.BarData{Value: fmt.Sprintf("%.2f", float64(s.Bytes)/1024/1024)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "assetctl runs",
			Subtitle: fmt.Sprintf("%d runs", len(runs)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "run"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "items"}),
	)

	stacked := charts.WithBarChartOpts(opts.BarChart{Stack: "status"})
	bar.SetXAxis(labels).
		AddSeries("succeeded", succeeded, stacked).
		AddSeries("failed", failed, stacked).
		AddSeries("skipped", skipped, stacked).
		AddSeries("MB transferred", megabytes)

	return bar.Render(w)
}

// RunLabel is the short name of a run on chart axes and in tables
func RunLabel(run domain.RunRecord) string {
	id := run.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s %s %s", run.StartedAt.Local().Format("01-02 15:04"), run.Mode, id)
}
