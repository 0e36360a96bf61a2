// internal/game/types.go
//
// Core type definitions for the round/timer state machine.
// Defines:
//   - Phase: top-level game state (menu/playing/game_over).
//   - Round: the category + letter currently shown.
//   - TimerState / Snapshot: read-only views for presentation layers.
//   - Event: serialisable record of everything the controller emits.

package game

import (
	"errors"

	"github.com/ongw/whatword/internal/catalog"
)

// ErrInvalidTransition is returned when an operation is not valid for the
// current phase. State is left untouched; callers may ignore it.
var ErrInvalidTransition = errors.New("invalid transition")

// Phase is the top-level game state. Exactly one is active at a time.
type Phase string

const (
	PhaseMenu     Phase = "menu"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "game_over"
)

func (p Phase) String() string { return string(p) }

// CanTransitionTo reports whether the controller may move from p to target.
func (p Phase) CanTransitionTo(target Phase) bool {
	switch p {
	case PhaseMenu:
		return target == PhasePlaying
	case PhasePlaying:
		return target == PhaseGameOver
	case PhaseGameOver:
		return target == PhasePlaying || target == PhaseMenu
	}
	return false
}

// Timer bounds in seconds.
const (
	MinSeconds     = 3
	MaxSeconds     = 10
	DefaultSeconds = 5
)

// Round is what players see: a category and a letter.
// The zero value means nothing is shown (menu).
type Round struct {
	Category *catalog.Category
	Letter   rune
}

// Empty reports whether no round is shown.
func (r Round) Empty() bool { return r.Category == nil }

// TimerState is a copy of the round timer.
type TimerState struct {
	Remaining int  `json:"remaining"`
	Max       int  `json:"max"`
	Running   bool `json:"running"`
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Phase  Phase      `json:"phase"`
	Round  RoundView  `json:"round"`
	Timer  TimerState `json:"timer"`
	Rounds int        `json:"rounds"` // rounds revealed since the game started
}

// RoundView is the JSON-friendly shape of a Round.
type RoundView struct {
	Key    string   `json:"key,omitempty"`
	Lines  []string `json:"lines,omitempty"`
	Letter string   `json:"letter,omitempty"`
}

// View converts a Round to its display form.
func (r Round) View() RoundView {
	if r.Category == nil {
		return RoundView{}
	}
	v := RoundView{Key: r.Category.Key, Lines: r.Category.Lines()}
	if r.Letter != 0 {
		v.Letter = string(r.Letter)
	}
	return v
}

// EventType names what happened.
type EventType string

const (
	EventRoundChanged EventType = "round_changed"
	EventTimerStarted EventType = "timer_started"
	EventTimerTicked  EventType = "timer_ticked"
	EventTimerExpired EventType = "timer_expired"
	EventPhaseChanged EventType = "phase_changed"
	EventMaxChanged   EventType = "max_changed"
)

// Event is the serialisable form of a Presenter callback.
type Event struct {
	Type      EventType  `json:"type"`
	Phase     Phase      `json:"phase,omitempty"`
	Round     *RoundView `json:"round,omitempty"`
	Remaining int        `json:"remaining"`
	Max       int        `json:"max,omitempty"`
}

// Sound and loop names handed to the Audio collaborator.
const (
	SoundCorrect = "correct"
	SoundWrong   = "wrong"
	LoopTicking  = "ticking"
)
