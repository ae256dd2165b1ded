package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var (
	visualNoBitPlanes  bool
	visualNoOperations bool
	visualNoHistograms bool
	visualJSON         bool
)

var visualCmd = &cobra.Command{
	Use:   "visual <image>",
	Short: "Decompose channels and bit planes",
	Long: `Run visual analysis: per-channel decomposition, bit-plane slices,
pixel operations and histograms, plus statistical anomaly detection.
The image renderings come back base64-encoded; use --json to capture
them.`,
	Args: cobra.ExactArgs(1),
	RunE: runVisual,
}

func init() {
	visualCmd.Flags().BoolVar(&visualNoBitPlanes, "no-bit-planes", false, "skip bit-plane rendering")
	visualCmd.Flags().BoolVar(&visualNoOperations, "no-operations", false, "skip pixel-operation rendering")
	visualCmd.Flags().BoolVar(&visualNoHistograms, "no-histograms", false, "skip histogram rendering")
	visualCmd.Flags().BoolVar(&visualJSON, "json", false, "print the raw result JSON")
}

func runVisual(cmd *cobra.Command, args []string) error {
	img, err := activateImage(args[0])
	if err != nil {
		return err
	}
	printImageFacts(img)

	cfg := defaultRunConfig()
	if visualNoBitPlanes {
		cfg.Visual.IncludeBitPlanes = false
	}
	if visualNoOperations {
		cfg.Visual.IncludeOperations = false
	}
	if visualNoHistograms {
		cfg.Visual.IncludeHistograms = false
	}

	result, err := runAndWait(domain.KindVisual, cfg)
	if err != nil {
		return err
	}
	payload := result.Payload.(domain.VisualPayload)

	if visualJSON {
		return printJSON(payload)
	}

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Channels rendered", fmt.Sprintf("%d", len(payload.Channels))))
	fmt.Println(ui.RenderKeyValue("Bit planes", fmt.Sprintf("%d", len(payload.BitPlanes))))
	fmt.Println(ui.RenderKeyValue("Operations", fmt.Sprintf("%d", len(payload.Operations))))
	fmt.Println(ui.RenderKeyValue("Histograms", fmt.Sprintf("%d", len(payload.Histograms))))
	fmt.Println()

	if payload.AnomalyAnalysis.AnomaliesDetected {
		fmt.Println(ui.FormatWarning("Statistical anomalies detected"))
		fmt.Print(ui.RenderSimpleList(payload.AnomalyAnalysis.Findings))
	} else {
		fmt.Println(ui.FormatSuccess("No statistical anomalies detected"))
	}
	fmt.Println()
	fmt.Println(ui.FormatMuted("Rerun with --json to capture the base64 renderings."))
	return nil
}
