// internal/game/controller.go
//
// Game controller: the Menu → Playing → GameOver → Menu state machine.
//
// Responsibilities:
//   - Own the Picker, the Timer and the current Round.
//   - Accept input (start, tap, tick, restart, home, +/- time) and reject
//     anything not valid for the current phase with ErrInvalidTransition.
//   - Report every change to the Presenter and cue the Audio collaborator.
//
// The controller is not safe for concurrent use. Callers serialise input
// and ticks (bubbletea's update loop, or session.Session's mutex).

package game

import (
	"github.com/rs/zerolog/log"

	"github.com/ongw/whatword/internal/catalog"
)

// Controller runs one game screen.
type Controller struct {
	cat       *catalog.Catalog
	picker    *Picker
	newRand   func() Rand
	timer     *Timer
	presenter Presenter
	audio     Audio

	phase  Phase
	round  Round
	rounds int
}

// Option configures a Controller.
type Option func(*Controller)

// WithPresenter sets the presentation collaborator.
func WithPresenter(p Presenter) Option {
	return func(c *Controller) {
		if p != nil {
			c.presenter = p
		}
	}
}

// WithAudio sets the audio collaborator.
func WithAudio(a Audio) Option {
	return func(c *Controller) {
		if a != nil {
			c.audio = a
		}
	}
}

// WithRand sets the random source used for picking rounds.
func WithRand(r Rand) Option {
	return func(c *Controller) { c.picker = NewPicker(r) }
}

// WithRandSource draws a fresh random source at the start of every game,
// so each start and restart replays the same sequence when newRand is
// deterministic (daily mode). It overrides WithRand.
func WithRandSource(newRand func() Rand) Option {
	return func(c *Controller) { c.newRand = newRand }
}

// WithSeconds sets the initial round length (clamped).
func WithSeconds(s int) Option {
	return func(c *Controller) { c.timer.Configure(s) }
}

// New returns a controller in the Menu phase. cat must be a loaded catalog.
func New(cat *catalog.Catalog, opts ...Option) *Controller {
	c := &Controller{
		cat:       cat,
		picker:    NewPicker(nil),
		timer:     NewTimer(DefaultSeconds),
		presenter: NopPresenter{},
		audio:     nopAudio{},
		phase:     PhaseMenu,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Phase returns the active phase.
func (c *Controller) Phase() Phase { return c.phase }

// Round returns the round on screen (zero in the menu).
func (c *Controller) Round() Round { return c.round }

// Timer returns a copy of the timer state.
func (c *Controller) Timer() TimerState { return c.timer.State() }

// Snapshot returns a read-only copy of the whole state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:  c.phase,
		Round:  c.round.View(),
		Timer:  c.timer.State(),
		Rounds: c.rounds,
	}
}

// IncreaseTime adds a second to the round length (menu only).
func (c *Controller) IncreaseTime() error { return c.adjustTime(+1) }

// DecreaseTime removes a second from the round length (menu only).
func (c *Controller) DecreaseTime() error { return c.adjustTime(-1) }

func (c *Controller) adjustTime(delta int) error {
	if c.phase != PhaseMenu {
		return c.reject("adjust_time")
	}
	c.timer.Configure(c.timer.Max() + delta)
	c.presenter.MaxChanged(c.timer.Max())
	return nil
}

// StartGame leaves the menu and shows the first round.
func (c *Controller) StartGame() error {
	if c.phase != PhaseMenu {
		return c.reject("start")
	}
	c.begin()
	return nil
}

// Restart starts a fresh game from the game-over screen.
func (c *Controller) Restart() error {
	if c.phase != PhaseGameOver {
		return c.reject("restart")
	}
	c.begin()
	return nil
}

// begin is the shared start/restart sequence: no previous round applies.
func (c *Controller) begin() {
	if c.newRand != nil {
		c.picker = NewPicker(c.newRand())
	}
	c.rounds = 0
	c.setPhase(PhasePlaying)
	c.audio.PlayLoop(LoopTicking)
	c.nextRound(Round{})
}

// RevealNext replaces the round on screen and restarts the countdown.
func (c *Controller) RevealNext() error {
	if c.phase != PhasePlaying {
		return c.reject("tap")
	}
	c.audio.PlaySound(SoundCorrect)
	c.nextRound(c.round)
	return nil
}

func (c *Controller) nextRound(previous Round) {
	c.round = c.picker.PickRound(c.cat, previous)
	c.rounds++
	c.timer.Start()
	log.Debug().
		Str("category", c.round.Category.Label()).
		Str("letter", string(c.round.Letter)).
		Int("round", c.rounds).
		Msg("round changed")
	c.presenter.RoundChanged(c.round)
	c.presenter.TimerStarted(c.timer.Remaining())
}

// Tick advances the countdown by one beat. When time runs out the game
// moves to GameOver.
func (c *Controller) Tick() error {
	if c.phase != PhasePlaying {
		return ErrInvalidTransition
	}
	expired := c.timer.Tick()
	c.presenter.TimerTicked(c.timer.Remaining())
	if !expired {
		return nil
	}
	c.presenter.TimerExpired()
	c.audio.StopLoop()
	c.audio.PlaySound(SoundWrong)
	c.audio.Vibrate()
	c.setPhase(PhaseGameOver)
	return nil
}

// ReturnToMenu goes back to the menu and clears the round.
func (c *Controller) ReturnToMenu() error {
	if c.phase != PhaseGameOver {
		return c.reject("home")
	}
	c.round = Round{}
	c.rounds = 0
	c.timer.Reset()
	c.setPhase(PhaseMenu)
	return nil
}

func (c *Controller) setPhase(p Phase) {
	log.Debug().Str("from", c.phase.String()).Str("to", p.String()).Msg("phase changed")
	c.phase = p
	c.presenter.PhaseChanged(p)
}

func (c *Controller) reject(op string) error {
	log.Debug().Str("op", op).Str("phase", c.phase.String()).Msg("ignored input for phase")
	return ErrInvalidTransition
}
