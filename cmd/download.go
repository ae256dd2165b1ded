package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/pkg/ui"
)

var downloadOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <file-id>",
	Short: "Download a file the service extracted from an image",
	Long: `Fetch a server-side artifact carved out during LSB extraction. The
file id comes from the 'stego lsb' output. Files land in the workspace
downloads directory unless -o points elsewhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file or directory")
}

func runDownload(cmd *cobra.Command, args []string) error {
	fileID := args[0]

	// Stream into a temp file first; the final name comes from the
	// service's Content-Disposition.
	tmp, err := os.CreateTemp(appWorkspace.DownloadsPath, ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create download file: %w", err)
	}
	tmpPath := tmp.Name()

	name, err := apiClient.Download(getContext(), fileID, tmp)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finish download: %w", closeErr)
	}

	dest := resolveDownloadDest(name)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	fmt.Println(ui.FormatSuccess("Saved " + dest))
	return nil
}

func resolveDownloadDest(name string) string {
	if downloadOutput == "" {
		return appWorkspace.GetDownloadPath(name)
	}
	if info, err := os.Stat(downloadOutput); err == nil && info.IsDir() {
		return filepath.Join(downloadOutput, name)
	}
	return downloadOutput
}
