// Package audio holds the fire-and-forget audio collaborators handed to the
// game controller. None of them can fail in a way the game notices.
package audio

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ongw/whatword/internal/game"
)

// Nop plays nothing.
type Nop struct{}

func (Nop) PlaySound(string) {}
func (Nop) PlayLoop(string) {}
func (Nop) StopLoop() {}
func (Nop) Vibrate() {}

// Bell rings the terminal bell for the round cues. Loops are silent; a
// terminal has no way to hold a sound.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell writes BEL characters to w.
func NewBell(w io.Writer) *Bell { return &Bell{w: w} }

func (b *Bell) PlaySound(name string) {
	switch name {
	case game.SoundCorrect:
		b.ring(1)
	case game.SoundWrong:
		b.ring(2)
	}
}

func (b *Bell) PlayLoop(string) {}
func (b *Bell) StopLoop() {}

// Vibrate has no terminal equivalent beyond another ring.
func (b *Bell) Vibrate() { b.ring(1) }

func (b *Bell) ring(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		_, _ = b.w.Write([]byte{'\a'})
	}
}

// Logged writes one debug line per call; used by served games, where the
// client does its own playback from the event stream.
type Logged struct {
	Logger *zerolog.Logger
}

func (l Logged) logger() *zerolog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return &log.Logger
}

func (l Logged) PlaySound(name string) { l.logger().Debug().Str("sound", name).Msg("play sound") }
func (l Logged) PlayLoop(name string) { l.logger().Debug().Str("loop", name).Msg("play loop") }
func (l Logged) StopLoop() { l.logger().Debug().Msg("stop loop") }
func (l Logged) Vibrate() { l.logger().Debug().Msg("vibrate") }
