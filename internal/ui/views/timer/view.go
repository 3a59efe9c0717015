package timer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "vigil/internal/modules/session/dto"
	"vigil/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	Status(ctx context.Context) (sessiondto.StatusOutput, error)
	Start(ctx context.Context, category string, durationSeconds int) (sessiondto.StartOutput, error)
	Adjust(ctx context.Context, deltaMinutes int) (sessiondto.StatusOutput, error)
	Submit(ctx context.Context, passed bool) (sessiondto.ResolveOutput, error)
	Cancel(ctx context.Context) (sessiondto.ResolveOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type StatusMsg struct {
	Status sessiondto.StatusOutput
	Err    error
}

// ResolvedMsg is published when a session reaches a terminal state so
// the app can refresh dependent views.
type ResolvedMsg struct {
	Out sessiondto.ResolveOutput
	Err error
}

// ─── model ───────────────────────────────────────────────────────────────────

const (
	minPlanMinutes = 5
	maxPlanMinutes = 180
	planStep       = 5
)

type Model struct {
	port       SessionPort
	categories []string

	status   sessiondto.StatusOutput
	bar      progress.Model
	category int
	minutes  int
	notice   string
	width    int
	height   int
}

func New(port SessionPort, categories []string) Model {
	bar := progress.New(progress.WithDefaultGradient())
	return Model{
		port:       port,
		categories: categories,
		bar:        bar,
		minutes:    25,
		status:     sessiondto.StatusOutput{State: "idle"},
	}
}

func (m Model) Init() tea.Cmd {
	return m.RefreshCmd()
}

// RefreshCmd folds elapsed time into the active session and reloads the
// status line. The app model fires it once per second.
func (m Model) RefreshCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Status(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(m.width-8, 60)

	case StatusMsg:
		if msg.Err != nil {
			m.notice = msg.Err.Error()
			return m, nil
		}
		m.status = msg.Status

	case ResolvedMsg:
		if msg.Err != nil {
			m.notice = msg.Err.Error()
		} else {
			m.notice = resolvedNotice(msg.Out)
		}
		return m, m.RefreshCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.status.State {
	case "idle":
		switch msg.String() {
		case "left", "h":
			m.category = (m.category + len(m.categories) - 1) % max(len(m.categories), 1)
		case "right", "l":
			m.category = (m.category + 1) % max(len(m.categories), 1)
		case "up", "k":
			m.minutes = min(m.minutes+planStep, maxPlanMinutes)
		case "down", "j":
			m.minutes = max(m.minutes-planStep, minPlanMinutes)
		case "s", "enter":
			if len(m.categories) == 0 {
				m.notice = "no categories configured"
				return m, nil
			}
			m.notice = ""
			return m, m.startCmd(m.categories[m.category], m.minutes)
		}
	case "running":
		switch msg.String() {
		case "+", "=":
			return m, m.adjustCmd(planStep)
		case "-", "_":
			return m, m.adjustCmd(-planStep)
		case "c":
			return m, m.cancelCmd()
		}
	case "verifying":
		switch msg.String() {
		case "p", "enter":
			return m, m.submitCmd(true)
		case "f":
			return m, m.submitCmd(false)
		case "c":
			return m, m.cancelCmd()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	switch m.status.State {
	case "idle":
		sb.WriteString(theme.Title.Render("Start a session") + "\n\n")
		for i, category := range m.categories {
			label := "  " + category + "  "
			if i == m.category {
				label = theme.Hot.Render("[" + category + "]")
			}
			sb.WriteString(label)
		}
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("duration: %s\n", theme.Title.Render(fmt.Sprintf("%d min", m.minutes))))
		sb.WriteString("\n" + theme.Muted.Render("←/→ category  ↑/↓ minutes  s start"))

	case "running":
		sb.WriteString(theme.Title.Render(m.status.Category) + "\n\n")
		sb.WriteString(theme.Hot.Render(formatClock(m.status.RemainingSeconds)) + "\n\n")
		sb.WriteString(m.bar.ViewAs(m.elapsedRatio()) + "\n")
		sb.WriteString("\n" + theme.Muted.Render("+/- adjust 5 min  c cancel"))

	case "verifying":
		sb.WriteString(theme.Title.Render("Time is up") + "\n\n")
		sb.WriteString(theme.Hot.Render(m.status.Prompt) + "\n\n")
		sb.WriteString(theme.Muted.Render("p done  f skipped  c cancel"))

	default:
		sb.WriteString(theme.Muted.Render("no active session"))
	}
	if m.notice != "" {
		sb.WriteString("\n\n" + theme.Muted.Render(m.notice))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) elapsedRatio() float64 {
	if m.status.PlannedSeconds <= 0 {
		return 0
	}
	done := m.status.PlannedSeconds - m.status.RemainingSeconds
	return float64(done) / float64(m.status.PlannedSeconds)
}

func (m Model) startCmd(category string, minutes int) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.port.Start(context.Background(), category, minutes*60); err != nil {
			return StatusMsg{Err: err}
		}
		status, err := m.port.Status(context.Background())
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) adjustCmd(deltaMinutes int) tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Adjust(context.Background(), deltaMinutes)
		return StatusMsg{Status: status, Err: err}
	}
}

func (m Model) submitCmd(passed bool) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Submit(context.Background(), passed)
		return ResolvedMsg{Out: out, Err: err}
	}
}

func (m Model) cancelCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Cancel(context.Background())
		return ResolvedMsg{Out: out, Err: err}
	}
}

func resolvedNotice(out sessiondto.ResolveOutput) string {
	if !out.Credited {
		return fmt.Sprintf("session %s, no credit", out.State)
	}
	notice := fmt.Sprintf("session %s, +%d min %s", out.State, out.CreditedMinutes, out.Category)
	for _, unlock := range out.Unlocks {
		notice += fmt.Sprintf("  ★ %s lv%d", unlock.Category, unlock.Level)
	}
	return notice
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
