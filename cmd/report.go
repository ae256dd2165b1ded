package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var reportOutput string

var historyReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate an HTML report from the history ledger",
	Long: `Render the ledger as an HTML page with a verdict breakdown and a
confidence timeline. The report lands in the workspace reports
directory unless -o points elsewhere.`,
	RunE: runHistoryReport,
}

func init() {
	historyReportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output HTML file")
}

func runHistoryReport(cmd *cobra.Command, args []string) error {
	ledger := historyService.Ledger()
	if len(ledger) == 0 {
		fmt.Println(ui.FormatInfo("History is empty, nothing to report."))
		return nil
	}
	stats := historyService.Stats()

	page := components.NewPage()
	page.PageTitle = "Steganography Analysis Report"
	page.AddCharts(verdictPie(stats), confidenceTimeline(ledger))

	path := reportOutput
	if path == "" {
		path = appWorkspace.GetReportPath("history-" + time.Now().Format("20060102-150405") + ".html")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Report written to " + path))
	return nil
}

func verdictPie(stats domain.HistoryStats) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Verdict Breakdown",
			Subtitle: fmt.Sprintf("%d classification runs", stats.Total),
		}),
	)
	pie.AddSeries("verdicts", []opts.PieData{
		{Name: "stego", Value: stats.Stego},
		{Name: "clean", Value: stats.Clean},
	})
	return pie
}

func confidenceTimeline(ledger []domain.ClassificationRecord) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Confidence Over Time"}),
	)

	// Ledger is newest first; plot oldest to newest.
	labels := make([]string, 0, len(ledger))
	values := make([]opts.LineData, 0, len(ledger))
	for i := len(ledger) - 1; i >= 0; i-- {
		rec := ledger[i]
		labels = append(labels, rec.Timestamp.Format("01-02 15:04"))
		values = append(values, opts.LineData{Value: rec.Confidence})
	}

	line.SetXAxis(labels)
	line.AddSeries("confidence", values)
	return line
}
