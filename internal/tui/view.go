package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ongw/whatword/internal/game"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	letterStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Border(lipgloss.RoundedBorder()).Padding(0, 2)
	timerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	overStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m model) View() string {
	var body string
	switch m.scr.phase {
	case game.PhasePlaying:
		body = m.viewPlaying()
	case game.PhaseGameOver:
		body = m.viewGameOver()
	default:
		body = m.viewMenu()
	}
	if m.w == 0 || m.h == 0 {
		return body
	}
	return lipgloss.Place(m.w, m.h, lipgloss.Center, lipgloss.Center, body)
}

func (m model) viewMenu() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("WHAT WORD"),
		"",
		fmt.Sprintf("Round length:  - %ds +", m.scr.max),
		"",
		hintStyle.Render("space start · +/- time · q quit"),
	)
}

func (m model) viewPlaying() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.viewRound(),
		"",
		m.viewTimer(),
		"",
		hintStyle.Render("space next · q quit"),
	)
}

func (m model) viewGameOver() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		overStyle.Render("TIME'S UP!"),
		"",
		m.viewRound(),
		"",
		fmt.Sprintf("%d rounds", m.scr.rounds),
		"",
		hintStyle.Render("space play again · h menu · q quit"),
	)
}

func (m model) viewRound() string {
	parts := make([]string, 0, len(m.scr.lines)+1)
	for _, l := range m.scr.lines {
		parts = append(parts, categoryStyle.Render(l))
	}
	if m.scr.letter != "" {
		parts = append(parts, letterStyle.Render(m.scr.letter))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

// viewTimer draws one dot per second left out of max.
func (m model) viewTimer() string {
	left := m.scr.remaining
	if left < 0 {
		left = 0
	}
	bar := strings.Repeat("●", left) + strings.Repeat("○", max(m.scr.max-left, 0))
	style := timerStyle
	if left <= 2 {
		style = lowStyle
	}
	return style.Render(fmt.Sprintf("%s  %ds", bar, left))
}
