package audio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ongw/whatword/internal/audio"
	"github.com/ongw/whatword/internal/game"
)

var (
	_ game.Audio = audio.Nop{}
	_ game.Audio = (*audio.Bell)(nil)
	_ game.Audio = audio.Logged{}
)

func TestBell_RingsForCues(t *testing.T) {
	var buf bytes.Buffer
	b := audio.NewBell(&buf)

	b.PlayLoop(game.LoopTicking)
	b.PlaySound(game.SoundCorrect)
	b.PlaySound(game.SoundWrong)
	b.PlaySound("unknown")
	b.Vibrate()
	b.StopLoop()

	if got := strings.Count(buf.String(), "\a"); got != 4 {
		t.Fatalf("expected 4 bells, got %d", got)
	}
}

func TestLogged_WritesDebugLines(t *testing.T) {
	var buf bytes.Buffer
	lg := zerolog.New(&buf).Level(zerolog.DebugLevel)
	a := audio.Logged{Logger: &lg}

	a.PlaySound(game.SoundWrong)
	a.Vibrate()

	out := buf.String()
	if !strings.Contains(out, `"sound":"wrong"`) || !strings.Contains(out, "vibrate") {
		t.Fatalf("unexpected log output %q", out)
	}
}
