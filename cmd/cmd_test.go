package cmd

import (
	"testing"

	"github.com/phamquocan24/steganography/internal/core/ports/mocks"
	"github.com/phamquocan24/steganography/internal/core/services"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{
		"classify", "metadata", "strings", "visual", "lsb", "superimposed",
		"analyze", "models", "download", "history", "watch", "dashboard",
		"config", "version",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Errorf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd == nil {
				t.Errorf("Command '%s' is nil", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "stego" {
		t.Errorf("Expected root command Use to be 'stego', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()

	if len(commands) == 0 {
		t.Fatal("No commands registered")
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

// TestServiceInitialization verifies services can be initialized with mocks
func TestServiceInitialization(t *testing.T) {
	client := mocks.NewMockAnalysisClient()
	repo := mocks.NewMockHistoryRepository()
	notifier := mocks.NewMockNotifier()

	history := services.NewHistoryService(repo, notifier)
	if history == nil {
		t.Error("HistoryService is nil")
	}

	orch := services.NewOrchestrator(client, history, notifier)
	if orch == nil {
		t.Error("Orchestrator is nil")
	}
}

// TestHistorySubcommands verifies the history subcommands exist
func TestHistorySubcommands(t *testing.T) {
	subcommands := []string{"list", "view", "rm", "clear", "stats", "report"}

	parentCmd, _, err := rootCmd.Find([]string{"history"})
	if err != nil {
		t.Fatalf("Parent command 'history' not found: %v", err)
	}

	for _, sub := range subcommands {
		t.Run(sub, func(t *testing.T) {
			found := false
			for _, cmd := range parentCmd.Commands() {
				if cmd.Name() == sub {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Subcommand '%s' not found under 'history'", sub)
			}
		})
	}
}

// TestFlagsExist verifies important flags are registered
func TestFlagsExist(t *testing.T) {
	tests := []struct {
		command  string
		flagName string
	}{
		{"classify", "model"},
		{"classify", "copy"},
		{"classify", "json"},
		{"strings", "min-length"},
		{"strings", "max"},
		{"visual", "no-bit-planes"},
		{"lsb", "channels"},
		{"lsb", "bit-order"},
		{"superimposed", "mode"},
		{"analyze", "combined"},
		{"analyze", "quick"},
		{"analyze", "no-ai"},
		{"download", "output"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"_"+tt.flagName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", tt.command, err)
			}

			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Errorf("Flag '--%s' not found on command '%s'", tt.flagName, tt.command)
			}
		})
	}
}
