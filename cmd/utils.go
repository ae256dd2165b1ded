package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/atotto/clipboard"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/ports"
	"github.com/phamquocan24/steganography/internal/core/services"
	"github.com/phamquocan24/steganography/pkg/imageinfo"
	"github.com/phamquocan24/steganography/pkg/ui"
)

// printNotification is the queue sink for the CLI surface.
func printNotification(ev domain.NotificationEvent) {
	fmt.Println(ui.FormatNotification(ev))
}

// activateImage loads an image from disk and makes it the analysis subject.
func activateImage(path string) (*domain.UploadedImage, error) {
	img, err := imageinfo.Load(path)
	if err != nil {
		return nil, err
	}
	if _, err := orchestrator.SetActiveImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

// defaultRunConfig builds per-module options from the loaded config.
// Command flags override individual fields afterwards.
func defaultRunConfig() services.RunConfig {
	return services.RunConfig{
		Model: appConfig.DefaultModel,
		Strings: ports.StringsOptions{
			MinLength:  appConfig.StringsMinLength,
			MaxStrings: appConfig.StringsMaxStrings,
		},
		Visual: ports.VisualOptions{
			IncludeBitPlanes:  appConfig.VisualIncludeBitPlanes,
			IncludeOperations: appConfig.VisualIncludeOperations,
			IncludeHistograms: appConfig.VisualIncludeHistograms,
		},
		LSB: ports.LSBOptions{
			Channels:       appConfig.LSBChannels,
			BitOrder:       appConfig.LSBBitOrder,
			BitsPerChannel: appConfig.LSBBitsPerChannel,
			MaxBytes:       appConfig.LSBMaxBytes,
		},
		Superimposed: ports.SuperimposedOptions{
			Mode:      appConfig.SuperimposedMode,
			Channels:  appConfig.SuperimposedChannels,
			BitPlanes: appConfig.SuperimposedBitPlanes,
			BlendMode: appConfig.SuperimposedBlendMode,
		},
	}
}

// runAndWait dispatches one module and blocks until it settles. The
// returned result is the applied module state; a failed run comes back as
// an error built from the result's message.
func runAndWait(kind domain.ModuleKind, cfg services.RunConfig) (domain.ModuleResult, error) {
	ch, err := orchestrator.RunModule(getContext(), kind, cfg)
	if err != nil {
		return domain.ModuleResult{}, err
	}
	settlement := <-ch
	if settlement.Result.Status == domain.StatusFailed {
		return settlement.Result, fmt.Errorf("%s analysis failed: %s", kind, settlement.Result.Err)
	}
	return settlement.Result, nil
}

// printImageFacts shows the upload summary line the analysis commands
// share.
func printImageFacts(img *domain.UploadedImage) {
	fmt.Printf("%s %s %s\n",
		ui.FormatScan("Analyzing"),
		ui.StyleBold.Render(img.Name),
		ui.FormatMuted(fmt.Sprintf("(%s, %s)", img.Dimensions(), formatBytes(img.Size))),
	)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// printJSON pretty-prints any payload.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// copyJSONToClipboard copies a payload's JSON rendering. Clipboard
// failures are reported but never fail the command.
func copyJSONToClipboard(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(ui.FormatWarning("Could not render result for clipboard"))
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		fmt.Println(ui.FormatWarning("Could not copy to clipboard: " + err.Error()))
		return
	}
	fmt.Println(ui.FormatInfo("Result copied to clipboard"))
}

// printFindings renders suspicious findings as a severity-colored list.
func printFindings(findings []domain.SuspiciousFinding) {
	if len(findings) == 0 {
		fmt.Println(ui.FormatSuccess("No suspicious findings"))
		return
	}
	fmt.Println(ui.StyleHeader.Render("Suspicious Findings"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, f := range findings {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ui.FormatSeverity(f.Severity), f.Type, f.Description)
	}
	w.Flush()
}
