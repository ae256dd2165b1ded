package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var metadataJSON bool

var metadataCmd = &cobra.Command{
	Use:   "metadata <image>",
	Short: "Extract EXIF, GPS and comment metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetadata,
}

func init() {
	metadataCmd.Flags().BoolVar(&metadataJSON, "json", false, "print the raw result JSON")
}

func runMetadata(cmd *cobra.Command, args []string) error {
	img, err := activateImage(args[0])
	if err != nil {
		return err
	}
	printImageFacts(img)

	result, err := runAndWait(domain.KindMetadata, defaultRunConfig())
	if err != nil {
		return err
	}
	payload := result.Payload.(domain.MetadataPayload)

	if metadataJSON {
		return printJSON(payload)
	}

	fmt.Println()
	printMetadataSection("Basic", payload.Basic)
	printMetadataSection("EXIF", payload.EXIF)
	printMetadataSection("GPS", payload.GPS)
	printMetadataSection("Comments", payload.Comments)
	printFindings(payload.SuspiciousFindings)
	return nil
}

func printMetadataSection(title string, fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	fmt.Println(ui.StyleHeader.Render(title))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%v\n", ui.StyleAccent.Render(k), fields[k])
	}
	w.Flush()
	fmt.Println()
}
