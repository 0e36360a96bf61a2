// Package tui is the terminal front end: a bubbletea program that renders
// the controller through its Presenter callbacks and feeds it keys and
// timer beats.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ongw/whatword/internal/catalog"
	"github.com/ongw/whatword/internal/game"
)

// Options configures the terminal game.
type Options struct {
	Catalog *catalog.Catalog
	Seconds int
	Pulse   time.Duration // one timer beat; one second unless testing
	Audio   game.Audio
	Rand    game.Rand
}

// Run plays until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// tickMsg is one timer beat. gen ties it to the round that scheduled it.
type tickMsg struct{ gen uint64 }

// screen is what the presenter callbacks maintain. It also collects the
// commands a callback needs run, drained after every Update.
type screen struct {
	phase     game.Phase
	lines     []string
	letter    string
	remaining int
	max       int
	rounds    int

	pulse time.Duration
	gen   uint64
	cmds  []tea.Cmd
}

func (s *screen) RoundChanged(r game.Round) {
	v := r.View()
	s.lines, s.letter = v.Lines, v.Letter
	s.rounds++
}

func (s *screen) TimerStarted(remaining int) {
	s.remaining = remaining
	s.gen++
	s.schedule()
}

func (s *screen) TimerTicked(remaining int) {
	s.remaining = remaining
	if remaining > 0 {
		s.schedule()
	}
}

func (s *screen) TimerExpired() { s.gen++ }

func (s *screen) PhaseChanged(p game.Phase) {
	s.phase = p
	switch p {
	case game.PhasePlaying:
		s.rounds = 0
	case game.PhaseMenu:
		s.lines, s.letter = nil, ""
		s.remaining = s.max
	}
}

func (s *screen) MaxChanged(max int) {
	s.max = max
	s.remaining = max
}

func (s *screen) schedule() {
	gen := s.gen
	s.cmds = append(s.cmds, tea.Tick(s.pulse, func(time.Time) tea.Msg { return tickMsg{gen: gen} }))
}

func (s *screen) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}

type model struct {
	ctrl *game.Controller
	scr  *screen
	w, h int
}

func newModel(opts Options) model {
	if opts.Pulse <= 0 {
		opts.Pulse = time.Second
	}
	if opts.Seconds == 0 {
		opts.Seconds = game.DefaultSeconds
	}
	scr := &screen{phase: game.PhaseMenu, pulse: opts.Pulse}
	ctrl := game.New(opts.Catalog,
		game.WithPresenter(scr),
		game.WithAudio(opts.Audio),
		game.WithRand(opts.Rand),
		game.WithSeconds(opts.Seconds),
	)
	scr.max = ctrl.Timer().Max
	scr.remaining = scr.max
	return model{ctrl: ctrl, scr: scr}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "enter":
			m.primary()
		case "+", "=", "up", "right":
			_ = m.ctrl.IncreaseTime()
		case "-", "_", "down", "left":
			_ = m.ctrl.DecreaseTime()
		case "h", "esc":
			_ = m.ctrl.ReturnToMenu()
		}
	case tickMsg:
		if msg.gen == m.scr.gen {
			_ = m.ctrl.Tick()
		}
	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
	}
	return m, m.scr.drain()
}

// primary is the one big button: start, reveal or play again.
func (m model) primary() {
	switch m.ctrl.Phase() {
	case game.PhaseMenu:
		_ = m.ctrl.StartGame()
	case game.PhasePlaying:
		_ = m.ctrl.RevealNext()
	case game.PhaseGameOver:
		_ = m.ctrl.Restart()
	}
}
