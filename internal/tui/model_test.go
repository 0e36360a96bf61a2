package tui

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ongw/whatword/internal/catalog"
	"github.com/ongw/whatword/internal/game"
)

func testModel(t *testing.T) model {
	t.Helper()
	cat, err := catalog.Parse([]byte(`{"Animals": "ABC", "Fruit$Vegetable": "XY"}`), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return newModel(Options{
		Catalog: cat,
		Seconds: 3,
		Pulse:   time.Millisecond,
		Rand:    rand.New(rand.NewPCG(3, 4)),
	})
}

func press(t *testing.T, m model, key tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(model), cmd
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace}
	plus  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}
	home  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}}
)

func TestModel_PlayThrough(t *testing.T) {
	m := testModel(t)
	if !strings.Contains(m.View(), "3s") {
		t.Fatalf("menu should show the round length:\n%s", m.View())
	}

	m, _ = press(t, m, plus)
	if m.scr.max != 4 {
		t.Fatalf("expected max 4, got %d", m.scr.max)
	}

	m, cmd := press(t, m, space)
	if cmd == nil {
		t.Fatal("start should schedule a tick")
	}
	if m.scr.phase != game.PhasePlaying || m.scr.letter == "" || len(m.scr.lines) == 0 {
		t.Fatalf("unexpected screen after start %+v", m.scr)
	}
	if !strings.Contains(m.View(), m.scr.letter) {
		t.Fatalf("letter missing from view:\n%s", m.View())
	}

	// A tick from an older round does nothing.
	stale := tickMsg{gen: m.scr.gen - 1}
	next, _ := m.Update(stale)
	m = next.(model)
	if m.scr.remaining != 4 {
		t.Fatalf("stale tick changed remaining to %d", m.scr.remaining)
	}

	for i := 0; i < 4; i++ {
		next, _ := m.Update(tickMsg{gen: m.scr.gen})
		m = next.(model)
	}
	if m.scr.phase != game.PhaseGameOver {
		t.Fatalf("expected game over, got %s", m.scr.phase)
	}
	if !strings.Contains(m.View(), "TIME'S UP!") || !strings.Contains(m.View(), "1 rounds") {
		t.Fatalf("unexpected game over view:\n%s", m.View())
	}

	m, _ = press(t, m, home)
	if m.scr.phase != game.PhaseMenu || m.scr.letter != "" {
		t.Fatalf("expected a cleared menu, got %+v", m.scr)
	}
	if m.scr.max != 4 {
		t.Fatalf("round length should survive going home, got %d", m.scr.max)
	}
}

func TestModel_TapRestartsCountdown(t *testing.T) {
	m := testModel(t)
	m, _ = press(t, m, space)
	first := m.scr.gen

	next, _ := m.Update(tickMsg{gen: first})
	m = next.(model)
	if m.scr.remaining != 2 {
		t.Fatalf("expected 2 left, got %d", m.scr.remaining)
	}

	m, cmd := press(t, m, space)
	if cmd == nil || m.scr.gen == first {
		t.Fatal("tap should start a new countdown")
	}
	if m.scr.remaining != 3 || m.scr.rounds != 2 {
		t.Fatalf("unexpected screen after tap %+v", m.scr)
	}

	// The previous round's pending beat must not count against this one.
	next, _ = m.Update(tickMsg{gen: first})
	m = next.(model)
	if m.scr.remaining != 3 {
		t.Fatalf("old beat counted: remaining %d", m.scr.remaining)
	}
}

func TestModel_Quit(t *testing.T) {
	m := testModel(t)
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
