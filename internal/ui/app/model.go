package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vigil/internal/ui/theme"
	achievementsview "vigil/internal/ui/views/achievements"
	timerview "vigil/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// The app composes the session and achievement surfaces; the view ports
// are defined next to the views that consume them.

type sessionPort interface {
	timerview.SessionPort
	SetForeground(foreground bool)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabAchievements
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Achievements"}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab  key.Binding
	Help key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Help, k.Quit}}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing and the
// one-second tick that drives the countdown; everything else is
// delegated to the sub-views.
type Model struct {
	session sessionPort

	timerView timerview.Model
	achView   achievementsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	width     int
	height    int
}

func NewModel(session sessionPort, achievements achievementsview.AchievementPort, categories []string) Model {
	session.SetForeground(true)
	return Model{
		session:   session,
		timerView: timerview.New(session, categories),
		achView:   achievementsview.New(achievements),
		keys:      defaultKeys(),
		help:      help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.timerView.Init(), m.achView.Init(), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width - 4, Height: msg.Height - 6}
		var tCmd, aCmd tea.Cmd
		m.timerView, tCmd = m.timerView.Update(inner)
		m.achView, aCmd = m.achView.Update(inner)
		return m, tea.Batch(tCmd, aCmd)

	case tickMsg:
		cmds = append(cmds, tickCmd(), m.timerView.RefreshCmd())

	case timerview.ResolvedMsg:
		// A finished session can change the achievement board.
		cmds = append(cmds, m.achView.RefreshCmd())
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.session.SetForeground(false)
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			if m.activeTab == tabAchievements {
				cmds = append(cmds, m.achView.RefreshCmd())
			}
			return m, tea.Batch(cmds...)
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	switch m.activeTab {
	case tabTimer:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		cmds = append(cmds, cmd)
	case tabAchievements:
		var cmd tea.Cmd
		m.achView, cmd = m.achView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var body string
	switch m.activeTab {
	case tabTimer:
		body = m.timerView.View()
	case tabAchievements:
		body = m.achView.View()
	}

	footer := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		footer = m.help.FullHelpView(m.keys.FullHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		body,
		theme.Muted.Render(footer),
	)
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, tabCount)
	for i, label := range tabLabels {
		style := theme.Muted
		if tabID(i) == m.activeTab {
			style = theme.Hot
		}
		rendered = append(rendered, style.Render(" "+label+" "))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
