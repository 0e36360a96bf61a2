// internal/session/session.go
//
// A served game: one Controller behind a mutex.
//
// Responsibilities:
//   - Serialise inputs from HTTP/websocket clients and pulse ticks.
//   - Drive the round timer with a pulse that starts on every new round and
//     stops when the round ends; stale pulses are fenced by a generation.
//   - Fan events out to subscribers in the order they were emitted.
//   - Record a history.Result when a game ends, outside the lock.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/ongw/whatword/internal/catalog"
	"github.com/ongw/whatword/internal/game"
	"github.com/ongw/whatword/internal/history"
	"github.com/ongw/whatword/internal/pulse"
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("session closed")

// Recorder stores finished games. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, r history.Result) error
}

// Options configures a Session. Zero values pick sensible defaults.
type Options struct {
	Mode     string        // "classic" (default) or "daily"
	Day      string        // YYYY-MM-DD the daily sequence is seeded from
	Seconds  int           // initial round length, clamped by the timer
	Pulse    time.Duration // tick interval, default one second
	Rand     game.Rand     // nil uses the process-wide source
	NewRand  func() game.Rand
	Clock    clockwork.Clock
	Audio    game.Audio
	Recorder Recorder
}

// Session is one served game.
type Session struct {
	ID      uuid.UUID
	Mode    string
	Day     string // daily mode only
	Created time.Time

	clock    clockwork.Clock
	interval time.Duration
	recorder Recorder
	ctx      context.Context
	cancel   context.CancelFunc

	mu        sync.Mutex // guards everything below and the controller
	ctrl      *game.Controller
	pending   []game.Event
	gen       uint64
	stopPulse func()
	touched   time.Time
	closed    bool

	pubMu sync.Mutex // held while publishing so events keep their order
	subMu sync.Mutex
	subs  map[chan game.Event]struct{}
}

// New creates a session in the menu phase.
func New(cat *catalog.Catalog, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Pulse <= 0 {
		opts.Pulse = time.Second
	}
	if opts.Mode == "" {
		opts.Mode = "classic"
	}
	if opts.Seconds == 0 {
		opts.Seconds = game.DefaultSeconds
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:       uuid.New(),
		Mode:     opts.Mode,
		Day:      opts.Day,
		Created:  opts.Clock.Now(),
		clock:    opts.Clock,
		interval: opts.Pulse,
		recorder: opts.Recorder,
		ctx:      ctx,
		cancel:   cancel,
		subs:     make(map[chan game.Event]struct{}),
	}
	s.touched = s.Created
	gopts := []game.Option{
		game.WithPresenter(game.EventSink(s.onEvent)),
		game.WithAudio(opts.Audio),
		game.WithRand(opts.Rand),
		game.WithSeconds(opts.Seconds),
	}
	if opts.NewRand != nil {
		gopts = append(gopts, game.WithRandSource(opts.NewRand))
	}
	s.ctrl = game.New(cat, gopts...)
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Snapshot()
}

// Touched is the time of the last client input.
func (s *Session) Touched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Dispatch applies a client input and returns the resulting state.
// game.ErrInvalidTransition is passed through with the unchanged state.
func (s *Session) Dispatch(ctx context.Context, in game.Input) (game.Snapshot, error) {
	return s.apply(ctx, in, 0, false)
}

// apply runs one input under the lock. Fenced inputs (pulse ticks) are
// dropped when their round generation is no longer current.
func (s *Session) apply(ctx context.Context, in game.Input, gen uint64, fenced bool) (game.Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return game.Snapshot{}, ErrClosed
	}
	if fenced && gen != s.gen {
		snap := s.ctrl.Snapshot()
		s.mu.Unlock()
		return snap, nil
	}
	if !fenced {
		s.touched = s.clock.Now()
	}

	before := s.ctrl.Phase()
	err := s.ctrl.Dispatch(in)
	snap := s.ctrl.Snapshot()

	var result *history.Result
	if before == game.PhasePlaying && snap.Phase == game.PhaseGameOver {
		result = &history.Result{
			GameID:     s.ID.String(),
			Mode:       s.Mode,
			Day:        s.Day,
			Seconds:    snap.Timer.Max,
			Rounds:     snap.Rounds,
			LastKey:    snap.Round.Key,
			LastLetter: snap.Round.Letter,
			FinishedAt: s.clock.Now(),
		}
	}
	events := s.pending
	s.pending = nil

	s.pubMu.Lock()
	s.mu.Unlock()
	s.publish(events)
	s.pubMu.Unlock()

	if result != nil && s.recorder != nil {
		if rerr := s.recorder.Record(ctx, *result); rerr != nil {
			log.Warn().Err(rerr).Str("game_id", result.GameID).Msg("record result")
		}
	}
	return snap, err
}

// onEvent runs inside Controller calls, so s.mu is held.
func (s *Session) onEvent(e game.Event) {
	s.pending = append(s.pending, e)
	switch e.Type {
	case game.EventTimerStarted:
		s.restartPulse()
	case game.EventTimerExpired:
		s.haltPulse()
	case game.EventPhaseChanged:
		if e.Phase != game.PhasePlaying {
			s.haltPulse()
		}
	}
}

func (s *Session) restartPulse() {
	s.haltPulse()
	gen := s.gen
	s.stopPulse = pulse.Start(s.ctx, s.clock, s.interval, func() {
		if _, err := s.apply(s.ctx, game.InputTick, gen, true); err != nil && !errors.Is(err, game.ErrInvalidTransition) && !errors.Is(err, ErrClosed) {
			log.Warn().Err(err).Str("game_id", s.ID.String()).Msg("pulse tick")
		}
	})
}

// haltPulse stops the running pulse and invalidates ticks already queued.
func (s *Session) haltPulse() {
	s.gen++
	if s.stopPulse != nil {
		s.stopPulse()
		s.stopPulse = nil
	}
}

// Subscribe returns a channel of events and a func to unsubscribe.
// Slow subscribers lose events rather than block the game.
func (s *Session) Subscribe(buffer int) (<-chan game.Event, func()) {
	ch := make(chan game.Event, buffer)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.subMu.Unlock()
		})
	}
}

func (s *Session) publish(events []game.Event) {
	if len(events) == 0 {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		for _, e := range events {
			select {
			case ch <- e:
			default:
				log.Warn().Str("game_id", s.ID.String()).Str("event", string(e.Type)).Msg("subscriber buffer full, dropping event")
			}
		}
	}
}

// Close stops the pulse and ends every subscription.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.haltPulse()
	s.cancel()
	s.mu.Unlock()

	s.subMu.Lock()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}
