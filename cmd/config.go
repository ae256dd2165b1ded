package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to disk",
	Long: `Persist the effective configuration so it can be edited. Existing
settings are kept; missing keys are filled with defaults.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("Configuration"))
	fmt.Println(ui.FormatMuted(appWorkspace.ConfigPath))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	kv := func(key string, value any) {
		fmt.Fprintf(w, "  %s\t%v\n", ui.StyleAccent.Render(key), value)
	}
	kv("base_url", appConfig.BaseURL)
	kv("timeout_seconds", appConfig.TimeoutSeconds)
	kv("combined_timeout_seconds", appConfig.CombinedTimeoutSeconds)
	kv("default_model", orEmpty(appConfig.DefaultModel))
	kv("strings_min_length", appConfig.StringsMinLength)
	kv("strings_max_strings", appConfig.StringsMaxStrings)
	kv("visual_include_bit_planes", appConfig.VisualIncludeBitPlanes)
	kv("visual_include_operations", appConfig.VisualIncludeOperations)
	kv("visual_include_histograms", appConfig.VisualIncludeHistograms)
	kv("lsb_channels", appConfig.LSBChannels)
	kv("lsb_bit_order", appConfig.LSBBitOrder)
	kv("lsb_bits_per_channel", appConfig.LSBBitsPerChannel)
	kv("lsb_max_bytes", appConfig.LSBMaxBytes)
	kv("superimposed_mode", appConfig.SuperimposedMode)
	kv("superimposed_channels", strings.Join(appConfig.SuperimposedChannels, ","))
	kv("superimposed_blend_mode", appConfig.SuperimposedBlendMode)
	kv("watch_debounce_ms", appConfig.WatchDebounceMS)
	kv("color_theme", appConfig.ColorTheme)
	w.Flush()
	return nil
}

func orEmpty(s string) string {
	if s == "" {
		return ui.FormatMuted("(service default)")
	}
	return s
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := appConfig.Save(appWorkspace.ConfigPath); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Config written to " + appWorkspace.ConfigPath))
	return nil
}
