package achievements

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	achievementdto "vigil/internal/modules/achievement/dto"
	"vigil/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AchievementPort interface {
	List(ctx context.Context) ([]achievementdto.CategoryOutput, error)
	ApplyWeeklyReset(ctx context.Context) (bool, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type CategoriesLoadedMsg struct {
	Categories []achievementdto.CategoryOutput
	Err        error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       AchievementPort
	categories []achievementdto.CategoryOutput
	bar        progress.Model
	errText    string
	width      int
	height     int
}

func New(port AchievementPort) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false
	return Model{port: port, bar: bar}
}

func (m Model) Init() tea.Cmd {
	return m.RefreshCmd()
}

// RefreshCmd applies any pending weekly reset, then reloads the board.
func (m Model) RefreshCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.port.ApplyWeeklyReset(context.Background()); err != nil {
			return CategoriesLoadedMsg{Err: err}
		}
		categories, err := m.port.List(context.Background())
		return CategoriesLoadedMsg{Categories: categories, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(m.width/2, 40)

	case CategoriesLoadedMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.categories = msg.Categories
	}
	return m, nil
}

func (m Model) View() string {
	if m.errText != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render(m.errText))
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Achievements") + "\n\n")
	for _, c := range m.categories {
		sb.WriteString(fmt.Sprintf("%-16s %s  lv %d/%d", c.Title, m.bar.ViewAs(c.Progress/100), c.Level, c.MaxLevel))
		if c.UnitsToNext > 0 {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("  next in %d", c.UnitsToNext)))
		}
		if c.Periodic {
			sb.WriteString(theme.Muted.Render("  (weekly)"))
		}
		sb.WriteString("\n")
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}
