package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var (
	lsbChannels string
	lsbBitOrder string
	lsbBits     int
	lsbMaxBytes int64
	lsbCopy     bool
	lsbJSON     bool
)

var lsbCmd = &cobra.Command{
	Use:   "lsb <image>",
	Short: "Extract data hidden in the least significant bits",
	Long: `Extract LSB-embedded data and assess whether it looks meaningful:
entropy, file signatures, readable text. When the service carves a
complete file out of the bit planes it reports a download id; fetch it
with 'stego download'.`,
	Args: cobra.ExactArgs(1),
	RunE: runLSB,
}

func init() {
	lsbCmd.Flags().StringVar(&lsbChannels, "channels", "", "channels to read, e.g. RGB (default from config)")
	lsbCmd.Flags().StringVar(&lsbBitOrder, "bit-order", "", "LSB or MSB (default from config)")
	lsbCmd.Flags().IntVar(&lsbBits, "bits", 0, "bits per channel (default from config)")
	lsbCmd.Flags().Int64Var(&lsbMaxBytes, "max-bytes", 0, "maximum bytes to extract (default from config)")
	lsbCmd.Flags().BoolVar(&lsbCopy, "copy", false, "copy the result JSON to the clipboard")
	lsbCmd.Flags().BoolVar(&lsbJSON, "json", false, "print the raw result JSON")
}

func runLSB(cmd *cobra.Command, args []string) error {
	img, err := activateImage(args[0])
	if err != nil {
		return err
	}
	printImageFacts(img)

	cfg := defaultRunConfig()
	if lsbChannels != "" {
		cfg.LSB.Channels = lsbChannels
	}
	if lsbBitOrder != "" {
		cfg.LSB.BitOrder = lsbBitOrder
	}
	if lsbBits > 0 {
		cfg.LSB.BitsPerChannel = lsbBits
	}
	if lsbMaxBytes > 0 {
		cfg.LSB.MaxBytes = lsbMaxBytes
	}

	result, err := runAndWait(domain.KindLSB, cfg)
	if err != nil {
		return err
	}
	payload := result.Payload.(domain.LSBPayload)

	if lsbJSON {
		if err := printJSON(payload); err != nil {
			return err
		}
	} else {
		fmt.Println()
		if payload.Assessment.ContainsHiddenData {
			fmt.Println(ui.FormatWarning(fmt.Sprintf("Hidden data likely (%d/100)", payload.Assessment.ConfidenceScore)))
		} else {
			fmt.Println(ui.FormatSuccess(fmt.Sprintf("No hidden data indicated (%d/100)", payload.Assessment.ConfidenceScore)))
		}
		if len(payload.Assessment.Indicators) > 0 {
			fmt.Print(ui.RenderSimpleList(payload.Assessment.Indicators))
		}
		if payload.FileDownload != nil {
			fmt.Println()
			fmt.Println(ui.FormatInfo(fmt.Sprintf(
				"Extracted file %s (%s) available: stego download %s",
				payload.FileDownload.Filename,
				formatBytes(payload.FileDownload.SizeBytes),
				payload.FileDownload.FileID,
			)))
		}
	}

	if lsbCopy {
		copyJSONToClipboard(payload)
	}
	return nil
}
