package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var (
	superMode      string
	superChannels  []string
	superBitPlanes []int
	superBlend     string
	superJSON      bool
)

var superimposedCmd = &cobra.Command{
	Use:   "superimposed <image>",
	Short: "Render superimposed channel and bit-plane images",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuperimposed,
}

func init() {
	superimposedCmd.Flags().StringVar(&superMode, "mode", "", "channels, bitplanes or both (default from config)")
	superimposedCmd.Flags().StringSliceVar(&superChannels, "channels", nil, "channels to superimpose (default from config)")
	superimposedCmd.Flags().IntSliceVar(&superBitPlanes, "planes", nil, "bit planes to superimpose (default from config)")
	superimposedCmd.Flags().StringVar(&superBlend, "blend", "", "blend mode (default from config)")
	superimposedCmd.Flags().BoolVar(&superJSON, "json", false, "print the raw result JSON")
}

func runSuperimposed(cmd *cobra.Command, args []string) error {
	img, err := activateImage(args[0])
	if err != nil {
		return err
	}
	printImageFacts(img)

	cfg := defaultRunConfig()
	if superMode != "" {
		cfg.Superimposed.Mode = superMode
	}
	if len(superChannels) > 0 {
		cfg.Superimposed.Channels = superChannels
	}
	if len(superBitPlanes) > 0 {
		cfg.Superimposed.BitPlanes = superBitPlanes
	}
	if superBlend != "" {
		cfg.Superimposed.BlendMode = superBlend
	}

	result, err := runAndWait(domain.KindSuperimposed, cfg)
	if err != nil {
		return err
	}
	payload := result.Payload.(domain.SuperimposedPayload)

	if superJSON {
		return printJSON(payload)
	}

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Renderings", fmt.Sprintf("%d", len(payload.SuperimposedImages))))
	printVerdictSection("Channel analysis", payload.ChannelAnalysis)
	printVerdictSection("Bit-plane analysis", payload.BitplaneAnalysis)
	printVerdictSection("Combined analysis", payload.CombinedAnalysis)
	fmt.Println()
	fmt.Println(ui.FormatMuted("Rerun with --json to capture the base64 renderings."))
	return nil
}

func printVerdictSection(title string, v *domain.SuperimposedVerdict) {
	if v == nil {
		return
	}
	fmt.Println()
	fmt.Println(ui.StyleHeader.Render(title))
	fmt.Println("  " + v.Description)
	if v.Recommendation != "" {
		fmt.Println("  " + ui.FormatMuted(v.Recommendation))
	}
}
