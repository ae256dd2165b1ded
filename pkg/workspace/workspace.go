package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace represents the managed storage directory for stego
type Workspace struct {
	RootPath      string
	DownloadsPath string
	ReportsPath   string
	ConfigPath    string
}

// New creates a new Workspace instance with XDG-compliant paths
func New() (*Workspace, error) {
	rootPath, rootErr := getWorkspaceRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine workspace root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return &Workspace{
		RootPath:      rootPath,
		DownloadsPath: filepath.Join(rootPath, "downloads"),
		ReportsPath:   filepath.Join(rootPath, "reports"),
		ConfigPath:    configPath,
	}, nil
}

// getWorkspaceRoot returns the workspace root directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getWorkspaceRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "stego"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "stego"), nil
	}

	return filepath.Join(homeDir, ".local", "share", "stego"), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "stego", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "stego-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "stego", "config.yaml"), nil
}

// Initialize creates the workspace directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{
		w.RootPath,
		w.DownloadsPath,
		w.ReportsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// HistoryPath returns the path to the persisted history ledger
func (w *Workspace) HistoryPath() string {
	return filepath.Join(w.RootPath, "stego_history.json")
}

// GetDownloadPath returns the full path for a downloaded artifact
func (w *Workspace) GetDownloadPath(filename string) string {
	return filepath.Join(w.DownloadsPath, filename)
}

// GetReportPath returns the full path for a generated report
func (w *Workspace) GetReportPath(filename string) string {
	return filepath.Join(w.ReportsPath, filename)
}
