package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/pkg/ui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stego version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", ui.StyleBold.Render("stego"), Version)
	},
}
