package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/phamquocan24/steganography/internal/core/domain"
	"github.com/phamquocan24/steganography/internal/core/services"
	"github.com/phamquocan24/steganography/pkg/ui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <image>",
	Short: "Run every module with a live status view",
	Long: `Fan all analysis modules out and watch them settle in place. Each
module line updates independently as its request resolves.`,
	Args: cobra.ExactArgs(1),
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	img, err := activateImage(args[0])
	if err != nil {
		return err
	}

	// The TUI owns the terminal; silence the printing sink until it exits.
	notifyQueue.SetSink(nil)
	defer notifyQueue.SetSink(printNotification)

	ch, err := orchestrator.RunAll(getContext(), defaultRunConfig())
	if err != nil {
		return err
	}

	model := newDashboardModel(img.Name, ch)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

type settlementMsg services.Settlement

type settledMsg struct{}

type dashboardModel struct {
	spinner spinner.Model
	image   string
	results map[domain.ModuleKind]domain.ModuleResult
	ch      <-chan services.Settlement
	done    bool
}

func newDashboardModel(image string, ch <-chan services.Settlement) dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.StylePrimary

	results := make(map[domain.ModuleKind]domain.ModuleResult, len(domain.AllModuleKinds))
	for _, kind := range domain.AllModuleKinds {
		results[kind] = domain.ModuleResult{Kind: kind, Status: domain.StatusRunning}
	}
	return dashboardModel{
		spinner: s,
		image:   image,
		results: results,
		ch:      ch,
	}
}

// waitForSettlement blocks on the merged channel and forwards one
// settlement into the update loop, or signals completion when it closes.
func waitForSettlement(ch <-chan services.Settlement) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return settledMsg{}
		}
		return settlementMsg(s)
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForSettlement(m.ch))
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case settlementMsg:
		if msg.Applied {
			m.results[msg.Kind] = msg.Result
		}
		return m, waitForSettlement(m.ch)

	case settledMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(ui.FormatTitle("Analyzing " + m.image))
	b.WriteString("\n\n")

	for _, kind := range domain.AllModuleKinds {
		result := m.results[kind]
		b.WriteString(m.renderModuleLine(kind, result))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(ui.FormatMuted("All modules settled."))
	} else {
		b.WriteString(ui.FormatMuted("q to quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m dashboardModel) renderModuleLine(kind domain.ModuleKind, result domain.ModuleResult) string {
	name := fmt.Sprintf("%-14s", kind)
	switch result.Status {
	case domain.StatusRunning:
		return fmt.Sprintf("  %s %s", m.spinner.View(), name)
	case domain.StatusSuccess:
		elapsed := ui.FormatMuted(result.Elapsed().Round(time.Millisecond).String())
		return fmt.Sprintf("  %s %s %s %s", ui.StyleSuccess.Render(ui.IconSuccess), name, moduleSummary(result), elapsed)
	case domain.StatusFailed:
		return fmt.Sprintf("  %s %s %s", ui.StyleError.Render(ui.IconError), name, ui.FormatMuted(result.Err))
	default:
		return fmt.Sprintf("  %s %s", ui.FormatMuted("·"), name)
	}
}
