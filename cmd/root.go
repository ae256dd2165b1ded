package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/adapters/repository"
	"github.com/phamquocan24/steganography/internal/adapters/stegoapi"
	"github.com/phamquocan24/steganography/internal/core/services"
	"github.com/phamquocan24/steganography/pkg/config"
	"github.com/phamquocan24/steganography/pkg/ui"
	"github.com/phamquocan24/steganography/pkg/workspace"
)

var (
	// Global workspace instance
	appWorkspace *workspace.Workspace
	appConfig    *config.Config

	// Services
	apiClient      *stegoapi.Client
	notifyQueue    *services.NotificationQueue
	historyService *services.HistoryService
	orchestrator   *services.Orchestrator

	// Repositories
	historyRepo *repository.FileHistoryRepository
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stego",
	Short: "Stego - steganography detection and forensics",
	Long: ui.StyleTitle.Render("Stego") + " - Steganography Analysis CLI\n\n" +
		"Upload an image to a steganography analysis service and run AI\n" +
		"classification and forensic modules against it: metadata, strings,\n" +
		"visual decomposition, LSB extraction and superimposed rendering.",
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(stringsCmd)
	rootCmd.AddCommand(visualCmd)
	rootCmd.AddCommand(lsbCmd)
	rootCmd.AddCommand(superimposedCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	w, err := workspace.New()
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	appWorkspace = w
	if err := appWorkspace.Initialize(); err != nil {
		return fmt.Errorf("failed to create workspace directories: %w", err)
	}

	cfg, err := config.Load(appWorkspace.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(appConfig.ColorTheme)

	// Initialize adapters
	apiClient = stegoapi.New(
		appConfig.BaseURL,
		time.Duration(appConfig.TimeoutSeconds)*time.Second,
		time.Duration(appConfig.CombinedTimeoutSeconds)*time.Second,
	)
	historyRepo = repository.NewFileHistoryRepository(appWorkspace.HistoryPath())

	// Initialize services. The notification sink prints events as they
	// are pushed so command output and status events interleave naturally.
	notifyQueue = services.NewNotificationQueue(printNotification)
	historyService = services.NewHistoryService(historyRepo, notifyQueue)
	historyService.Load()
	orchestrator = services.NewOrchestrator(apiClient, historyService, notifyQueue)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
