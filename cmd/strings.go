package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var (
	stringsMinLength int
	stringsMax       int
	stringsJSON      bool
)

var stringsCmd = &cobra.Command{
	Use:   "strings <image>",
	Short: "Extract readable strings and pattern matches",
	Long: `Extract printable strings from the image bytes and scan them for
interesting patterns: URLs, emails, IPs, base64, hex blobs, CTF flags
and JWTs.`,
	Args: cobra.ExactArgs(1),
	RunE: runStrings,
}

func init() {
	stringsCmd.Flags().IntVar(&stringsMinLength, "min-length", 0, "minimum string length (default from config)")
	stringsCmd.Flags().IntVar(&stringsMax, "max", 0, "maximum strings to return (default from config)")
	stringsCmd.Flags().BoolVar(&stringsJSON, "json", false, "print the raw result JSON")
}

func runStrings(cmd *cobra.Command, args []string) error {
	img, err := activateImage(args[0])
	if err != nil {
		return err
	}
	printImageFacts(img)

	cfg := defaultRunConfig()
	if stringsMinLength > 0 {
		cfg.Strings.MinLength = stringsMinLength
	}
	if stringsMax > 0 {
		cfg.Strings.MaxStrings = stringsMax
	}

	result, err := runAndWait(domain.KindStrings, cfg)
	if err != nil {
		return err
	}
	payload := result.Payload.(domain.StringsPayload)

	if stringsJSON {
		return printJSON(payload)
	}

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Unique strings", fmt.Sprintf("%d", payload.TotalUnique)))
	fmt.Println(ui.RenderKeyValue("ASCII", fmt.Sprintf("%d", len(payload.ASCIIStrings))))
	fmt.Println(ui.RenderKeyValue("UTF-8", fmt.Sprintf("%d", len(payload.UTF8Strings))))
	fmt.Println()

	printPatternGroup("URLs", payload.Patterns.URL)
	printPatternGroup("Emails", payload.Patterns.Email)
	printPatternGroup("IPv4 addresses", payload.Patterns.IPv4)
	printPatternGroup("Hex blobs", payload.Patterns.Hex)
	printPatternGroup("CTF flags", payload.Patterns.CTFFlag)
	printPatternGroup("JWTs", payload.Patterns.JWT)
	if len(payload.Patterns.Base64) > 0 {
		fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("Base64 candidates (%d)", len(payload.Patterns.Base64))))
		fmt.Println()
	}

	printFindings(payload.SuspiciousFindings)
	return nil
}

func printPatternGroup(title string, matches []string) {
	if len(matches) == 0 {
		return
	}
	fmt.Println(ui.StyleHeader.Render(fmt.Sprintf("%s (%d)", title, len(matches))))
	fmt.Print(ui.RenderSimpleList(matches))
	fmt.Println()
}
