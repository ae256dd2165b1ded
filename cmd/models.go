package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/pkg/ui"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the classification models the service offers",
	RunE:  runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	models, err := apiClient.ListModels(getContext())
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Println(ui.FormatWarning("The service reports no available models"))
		return nil
	}

	fmt.Println(ui.FormatTitle("Available Models"))
	for _, model := range models {
		marker := "  "
		if model == appConfig.DefaultModel {
			marker = ui.StyleSuccess.Render("* ")
		}
		fmt.Println(marker + model)
	}
	if appConfig.DefaultModel == "" {
		fmt.Println()
		fmt.Println(ui.FormatMuted("No default model configured; the service picks one per request."))
	}
	return nil
}
