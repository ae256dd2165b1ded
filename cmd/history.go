package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var historyClearYes bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past classification results",
	Long: `The history ledger keeps the most recent classification runs,
newest first. It survives restarts and is capped; the oldest entries
fall off as new ones arrive.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List classification records",
	RunE:  runHistoryList,
}

var historyViewCmd = &cobra.Command{
	Use:   "view [index]",
	Short: "Show one record in detail",
	Long: `Show a single record. With no index, opens a fuzzy finder over the
ledger.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistoryView,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <index>",
	Short: "Delete one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRm,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all records",
	RunE:  runHistoryClear,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate verdict counters",
	RunE:  runHistoryStats,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyRmCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyReportCmd)

	historyClearCmd.Flags().BoolVarP(&historyClearYes, "yes", "y", false, "skip the confirmation prompt")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	ledger := historyService.Ledger()
	if len(ledger) == 0 {
		fmt.Println(ui.FormatInfo("History is empty. Run 'stego classify <image>' first."))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "#", Align: "right"},
		{Header: "VERDICT"},
		{Header: "CONF", Align: "right"},
		{Header: "FILE"},
		{Header: "MODEL"},
		{Header: "WHEN"},
	})
	for i, rec := range ledger {
		table.AddRow([]string{
			strconv.Itoa(i),
			string(rec.Verdict),
			fmt.Sprintf("%.1f%%", rec.Confidence*100),
			rec.Filename,
			rec.Model,
			rec.Timestamp.Format("2006-01-02 15:04"),
		})
	}
	fmt.Print(table.Render())

	stats := historyService.Stats()
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d records (%d stego, %d clean)", stats.Total, stats.Stego, stats.Clean)))
	return nil
}

func runHistoryView(cmd *cobra.Command, args []string) error {
	ledger := historyService.Ledger()
	if len(ledger) == 0 {
		fmt.Println(ui.FormatInfo("History is empty."))
		return nil
	}

	index := -1
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index: %q", args[0])
		}
		index = parsed
	} else {
		picked, err := fuzzyfinder.Find(
			ledger,
			func(i int) string {
				rec := ledger[i]
				return fmt.Sprintf("%s  %s  %.1f%%  %s",
					rec.Timestamp.Format("2006-01-02 15:04"),
					strings.ToUpper(string(rec.Verdict)),
					rec.Confidence*100,
					rec.Filename,
				)
			},
		)
		if err != nil {
			if err == fuzzyfinder.ErrAbort {
				return nil
			}
			return fmt.Errorf("selection failed: %w", err)
		}
		index = picked
	}

	rec, ok := historyService.Get(index)
	if !ok {
		return fmt.Errorf("no record at index %d", index)
	}
	printRecordDetail(index, rec)
	return nil
}

func printRecordDetail(index int, rec domain.ClassificationRecord) {
	fmt.Println(ui.FormatTitle(fmt.Sprintf("Record #%d", index)))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Verdict", ui.FormatVerdict(rec.Verdict)))
	fmt.Println(ui.RenderKeyValue("Confidence", ui.FormatConfidence(rec.Confidence)))
	fmt.Println(ui.RenderKeyValue("Raw score", fmt.Sprintf("%.4f", rec.RawScore)))
	fmt.Println(ui.RenderKeyValue("Model", rec.Model))
	fmt.Println(ui.RenderKeyValue("File", rec.Filename))
	fmt.Println(ui.RenderKeyValue("Dimensions", rec.Dimensions))
	fmt.Println(ui.RenderKeyValue("Size", formatBytes(rec.SizeBytes)))
	fmt.Println(ui.RenderKeyValue("Duration", fmt.Sprintf("%d ms", rec.DurationMS)))
	fmt.Println(ui.RenderKeyValue("Analyzed", rec.Timestamp.Format("2006-01-02 15:04:05")))
	if rec.Probabilities != nil {
		fmt.Println(ui.RenderKeyValue("P(stego)", fmt.Sprintf("%.4f", rec.Probabilities.Stego)))
		fmt.Println(ui.RenderKeyValue("P(clean)", fmt.Sprintf("%.4f", rec.Probabilities.Clean)))
	}
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index: %q", args[0])
	}
	if _, ok := historyService.Get(index); !ok {
		return fmt.Errorf("no record at index %d", index)
	}

	historyService.Remove(index)
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Removed record #%d", index)))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	stats := historyService.Stats()
	if stats.Total == 0 {
		fmt.Println(ui.FormatInfo("History is already empty."))
		return nil
	}

	if !historyClearYes {
		fmt.Printf("Delete all %d records? (y/n): ", stats.Total)
		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println(ui.FormatInfo("Aborted."))
			return nil
		}
	}

	historyService.Clear()
	fmt.Println(ui.FormatSuccess("History cleared"))
	return nil
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	stats := historyService.Stats()
	if stats.Total == 0 {
		fmt.Println(ui.FormatInfo("History is empty."))
		return nil
	}

	fmt.Println(ui.FormatTitle("History Stats"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Total", strconv.Itoa(stats.Total)))
	fmt.Println(ui.RenderKeyValue("Stego", renderBar(stats.Stego, stats.Total, ui.StyleError)))
	fmt.Println(ui.RenderKeyValue("Clean", renderBar(stats.Clean, stats.Total, ui.StyleSuccess)))
	return nil
}

func renderBar(count, total int, style interface{ Render(...string) string }) string {
	const width = 20
	filled := 0
	if total > 0 {
		filled = count * width / total
	}
	bar := strings.Repeat("█", filled)
	return fmt.Sprintf("%s %d (%.0f%%)", style.Render(bar), count, float64(count)/float64(total)*100)
}
