package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/services"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var (
	analyzeCombined bool
	analyzeQuick    bool
	analyzeNoAI     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Run every analysis module against an image",
	Long: `Fan all analysis modules out in parallel and report each result as
it settles. Modules fail independently; one failure never stops the
others.

With --combined the forensic modules run server-side in a single
request instead of one request per module. --quick additionally asks
the service to skip the expensive renderings.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeCombined, "combined", false, "use the server-side combined endpoint for forensics")
	analyzeCmd.Flags().BoolVar(&analyzeQuick, "quick", false, "combined quick mode, skipping expensive renderings")
	analyzeCmd.Flags().BoolVar(&analyzeNoAI, "no-ai", false, "skip AI classification")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	img, err := activateImage(args[0])
	if err != nil {
		return err
	}
	printImageFacts(img)
	fmt.Println()

	if analyzeCombined || analyzeQuick {
		return runAnalyzeCombined()
	}
	return runAnalyzeFanOut()
}

func runAnalyzeFanOut() error {
	kinds := domain.AllModuleKinds
	if analyzeNoAI {
		kinds = domain.ForensicModuleKinds
	}

	ch, err := orchestrator.RunAll(getContext(), defaultRunConfig(), kinds...)
	if err != nil {
		return err
	}

	failures := streamSettlements(ch)
	printAnalyzeSummary(len(kinds), failures)
	return nil
}

func runAnalyzeCombined() error {
	ch, err := orchestrator.RunCombined(getContext(), analyzeQuick)
	if err != nil {
		return err
	}
	total := 4

	var classCh <-chan services.Settlement
	if !analyzeNoAI {
		classCh, err = orchestrator.RunModule(getContext(), domain.KindClassification, defaultRunConfig())
		if err != nil {
			return err
		}
		total++
	}

	failures := streamSettlements(ch)
	if classCh != nil {
		failures += streamSettlements(classCh)
	}
	printAnalyzeSummary(total, failures)
	return nil
}

// streamSettlements prints one status line per settlement as it arrives and
// returns the failure count.
func streamSettlements(ch <-chan services.Settlement) int {
	failures := 0
	for s := range ch {
		if !s.Applied {
			continue
		}
		elapsed := ui.FormatMuted(s.Result.Elapsed().Round(time.Millisecond).String())
		switch s.Result.Status {
		case domain.StatusSuccess:
			fmt.Printf("%s %s %s\n", ui.FormatSuccess(string(s.Kind)), moduleSummary(s.Result), elapsed)
		case domain.StatusFailed:
			failures++
			fmt.Printf("%s %s %s\n", ui.FormatError(string(s.Kind)), ui.FormatMuted(s.Result.Err), elapsed)
		}
	}
	return failures
}

// moduleSummary renders a one-line highlight for a settled module.
func moduleSummary(result domain.ModuleResult) string {
	switch p := result.Payload.(type) {
	case domain.ClassificationPayload:
		return fmt.Sprintf("%s (%s)", ui.FormatVerdict(domain.Verdict(p.Prediction)), ui.FormatConfidence(p.Confidence))
	case domain.MetadataPayload:
		return fmt.Sprintf("%d suspicious findings", len(p.SuspiciousFindings))
	case domain.StringsPayload:
		return fmt.Sprintf("%d unique strings", p.TotalUnique)
	case domain.VisualPayload:
		if p.AnomalyAnalysis.AnomaliesDetected {
			return ui.FormatWarning("anomalies detected")
		}
		return "no anomalies"
	case domain.LSBPayload:
		if p.Assessment.ContainsHiddenData {
			return ui.FormatWarning(fmt.Sprintf("hidden data likely (%d/100)", p.Assessment.ConfidenceScore))
		}
		return "no hidden data indicated"
	case domain.SuperimposedPayload:
		return fmt.Sprintf("%d renderings", len(p.SuperimposedImages))
	default:
		return ""
	}
}

func printAnalyzeSummary(total, failures int) {
	fmt.Println()
	if failures == 0 {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("All %d modules completed", total)))
	} else {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d of %d modules failed", failures, total)))
	}
}
