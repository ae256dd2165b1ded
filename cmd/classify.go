package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var (
	classifyModel string
	classifyCopy  bool
	classifyJSON  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <image>",
	Short: "Run AI steganography detection on an image",
	Long: `Upload an image and classify it as stego or clean using the
service's neural models. Successful runs are appended to history.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyModel, "model", "m", "", "model file to use (default: service default)")
	classifyCmd.Flags().BoolVar(&classifyCopy, "copy", false, "copy the result JSON to the clipboard")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "print the raw result JSON")
}

func runClassify(cmd *cobra.Command, args []string) error {
	img, err := activateImage(args[0])
	if err != nil {
		return err
	}
	printImageFacts(img)

	cfg := defaultRunConfig()
	if classifyModel != "" {
		cfg.Model = classifyModel
	}

	result, err := runAndWait(domain.KindClassification, cfg)
	if err != nil {
		return err
	}
	payload := result.Payload.(domain.ClassificationPayload)

	if classifyJSON {
		if err := printJSON(payload); err != nil {
			return err
		}
	} else {
		fmt.Println()
		fmt.Println(ui.RenderKeyValue("Verdict", ui.FormatVerdict(domain.Verdict(payload.Prediction))))
		fmt.Println(ui.RenderKeyValue("Confidence", ui.FormatConfidence(payload.Confidence)))
		fmt.Println(ui.RenderKeyValue("Raw score", fmt.Sprintf("%.4f", payload.RawScore)))
		fmt.Println(ui.RenderKeyValue("Model", payload.Model))
		fmt.Println(ui.RenderKeyValue("Elapsed", result.Elapsed().Round(time.Millisecond).String()))
		if payload.Probabilities != nil {
			fmt.Println(ui.RenderKeyValue("P(stego)", fmt.Sprintf("%.4f", payload.Probabilities.Stego)))
			fmt.Println(ui.RenderKeyValue("P(clean)", fmt.Sprintf("%.4f", payload.Probabilities.Clean)))
		}
	}

	if classifyCopy {
		copyJSONToClipboard(payload)
	}
	return nil
}
