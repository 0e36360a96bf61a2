package game_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ongw/whatword/internal/game"
)

type recorder struct {
	events []game.Event
}

func (r *recorder) sink() game.EventSink {
	return func(e game.Event) { r.events = append(r.events, e) }
}

func (r *recorder) count(t game.EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) last() game.Event { return r.events[len(r.events)-1] }

type audioLog struct {
	calls []string
}

func (a *audioLog) PlaySound(name string) { a.calls = append(a.calls, "sound:"+name) }
func (a *audioLog) PlayLoop(name string) { a.calls = append(a.calls, "loop:"+name) }
func (a *audioLog) StopLoop() { a.calls = append(a.calls, "stop") }
func (a *audioLog) Vibrate() { a.calls = append(a.calls, "vibrate") }

func newController(t *testing.T, js string, opts ...game.Option) (*game.Controller, *recorder, *audioLog) {
	t.Helper()
	rec := &recorder{}
	au := &audioLog{}
	opts = append([]game.Option{
		game.WithPresenter(rec.sink()),
		game.WithAudio(au),
		game.WithRand(seeded()),
	}, opts...)
	return game.New(mustCatalog(t, js), opts...), rec, au
}

func TestController_EndToEnd(t *testing.T) {
	c, rec, _ := newController(t, `{"Animals": "ABC", "Fruit$Vegetable": "XY"}`, game.WithSeconds(5))

	if c.Phase() != game.PhaseMenu {
		t.Fatalf("expected menu, got %s", c.Phase())
	}
	if err := c.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.Phase() != game.PhasePlaying || c.Timer().Remaining != 5 {
		t.Fatalf("after start: phase %s remaining %d", c.Phase(), c.Timer().Remaining)
	}
	if rec.count(game.EventRoundChanged) != 1 || rec.count(game.EventTimerStarted) != 1 {
		t.Fatalf("expected round_changed and timer_started once, got %+v", rec.events)
	}

	for i := 0; i < 5; i++ {
		if err := c.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if c.Phase() != game.PhaseGameOver {
		t.Fatalf("expected game over, got %s", c.Phase())
	}
	if rec.count(game.EventTimerExpired) != 1 {
		t.Fatalf("expected one timer_expired, got %d", rec.count(game.EventTimerExpired))
	}
	if e := rec.last(); e.Type != game.EventPhaseChanged || e.Phase != game.PhaseGameOver {
		t.Fatalf("expected phase_changed to game_over last, got %+v", e)
	}

	// Further ticks do nothing.
	if err := c.Tick(); !errors.Is(err, game.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if rec.count(game.EventTimerExpired) != 1 {
		t.Fatal("game over emitted twice")
	}

	if err := c.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if c.Phase() != game.PhasePlaying || c.Timer().Remaining != 5 {
		t.Fatalf("after restart: phase %s remaining %d", c.Phase(), c.Timer().Remaining)
	}
}

func TestController_CompoundSingleLetter(t *testing.T) {
	c, _, _ := newController(t, `{"Fruit$Vegetable": "X"}`)

	if err := c.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 20; i++ {
		r := c.Round()
		lines := r.Category.Lines()
		if len(lines) != 2 || lines[0] != "FRUIT" || lines[1] != "VEGETABLE" {
			t.Fatalf("unexpected lines %v", lines)
		}
		if r.Letter != 'X' {
			t.Fatalf("expected X, got %q", r.Letter)
		}
		if err := c.RevealNext(); err != nil {
			t.Fatalf("reveal: %v", err)
		}
	}
}

func TestController_RevealNextAvoidsRepeat(t *testing.T) {
	c, rec, au := newController(t, `{"Animals": "ABC", "Fruit$Vegetable": "XY"}`)
	_ = c.StartGame()

	prev := c.Round()
	for i := 0; i < 200; i++ {
		c.Tick()
		if err := c.RevealNext(); err != nil {
			t.Fatalf("reveal %d: %v", i, err)
		}
		cur := c.Round()
		if cur.Category.SameDisplay(*prev.Category) {
			t.Fatalf("category repeated: %q", cur.Category.Key)
		}
		if c.Timer().Remaining != c.Timer().Max || !c.Timer().Running {
			t.Fatalf("timer not restarted: %+v", c.Timer())
		}
		prev = cur
	}
	if got := c.Snapshot().Rounds; got != 201 {
		t.Fatalf("expected 201 rounds, got %d", got)
	}
	if rec.count(game.EventRoundChanged) != 201 {
		t.Fatalf("expected 201 round_changed, got %d", rec.count(game.EventRoundChanged))
	}
	if au.calls[0] != "loop:"+game.LoopTicking || au.calls[1] != "sound:"+game.SoundCorrect {
		t.Fatalf("unexpected audio calls %v", au.calls[:2])
	}
}

func TestController_AdjustTimeOnlyInMenu(t *testing.T) {
	c, rec, _ := newController(t, `{"Animals": "ABC"}`)

	for i := 0; i < 10; i++ {
		_ = c.IncreaseTime()
	}
	if c.Timer().Max != game.MaxSeconds {
		t.Fatalf("expected max %d, got %d", game.MaxSeconds, c.Timer().Max)
	}
	for i := 0; i < 10; i++ {
		_ = c.DecreaseTime()
	}
	if c.Timer().Max != game.MinSeconds {
		t.Fatalf("expected max %d, got %d", game.MinSeconds, c.Timer().Max)
	}
	if e := rec.last(); e.Type != game.EventMaxChanged || e.Max != game.MinSeconds {
		t.Fatalf("unexpected last event %+v", e)
	}

	_ = c.StartGame()
	if err := c.IncreaseTime(); !errors.Is(err, game.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition while playing, got %v", err)
	}
	if c.Timer().Max != game.MinSeconds {
		t.Fatalf("max changed while playing: %d", c.Timer().Max)
	}
}

func TestController_InvalidTransitionsAreNoops(t *testing.T) {
	c, rec, _ := newController(t, `{"Animals": "ABC"}`)

	for _, op := range []func() error{c.RevealNext, c.Restart, c.ReturnToMenu, c.Tick} {
		if err := op(); !errors.Is(err, game.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition in menu, got %v", err)
		}
	}
	if len(rec.events) != 0 || c.Phase() != game.PhaseMenu {
		t.Fatalf("state changed: phase %s events %+v", c.Phase(), rec.events)
	}

	_ = c.StartGame()
	for _, op := range []func() error{c.StartGame, c.Restart, c.ReturnToMenu} {
		if err := op(); !errors.Is(err, game.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition while playing, got %v", err)
		}
	}
	if c.Phase() != game.PhasePlaying {
		t.Fatalf("phase changed to %s", c.Phase())
	}
}

func TestController_GameOverAudioAndHome(t *testing.T) {
	c, _, au := newController(t, `{"Animals": "ABC"}`, game.WithSeconds(3))
	_ = c.StartGame()
	for i := 0; i < 3; i++ {
		_ = c.Tick()
	}
	tail := au.calls[len(au.calls)-3:]
	if tail[0] != "stop" || tail[1] != "sound:"+game.SoundWrong || tail[2] != "vibrate" {
		t.Fatalf("unexpected game over audio %v", tail)
	}

	if err := c.ReturnToMenu(); err != nil {
		t.Fatalf("home: %v", err)
	}
	snap := c.Snapshot()
	if snap.Phase != game.PhaseMenu || snap.Round.Key != "" || snap.Round.Letter != "" {
		t.Fatalf("round not cleared: %+v", snap)
	}
	if snap.Timer.Max != 3 || snap.Timer.Remaining != 3 || snap.Timer.Running {
		t.Fatalf("unexpected timer after home: %+v", snap.Timer)
	}
	if !c.Round().Empty() {
		t.Fatal("expected empty round")
	}
}

func TestController_Dispatch(t *testing.T) {
	c, _, _ := newController(t, `{"Animals": "ABC", "Sports": "XY"}`, game.WithSeconds(3))

	steps := []struct {
		in    string
		phase game.Phase
	}{
		{"increase_time", game.PhaseMenu},
		{"start", game.PhasePlaying},
		{"tap", game.PhasePlaying},
		{"tick", game.PhasePlaying},
		{"tick", game.PhasePlaying},
		{"tick", game.PhasePlaying},
		{"tick", game.PhaseGameOver},
		{"home", game.PhaseMenu},
	}
	for i, s := range steps {
		in, err := game.ParseInput(s.in)
		if err != nil {
			t.Fatalf("step %d: parse: %v", i, err)
		}
		if err := c.Dispatch(in); err != nil {
			t.Fatalf("step %d (%s): %v", i, s.in, err)
		}
		if c.Phase() != s.phase {
			t.Fatalf("step %d (%s): expected %s, got %s", i, s.in, s.phase, c.Phase())
		}
	}
	if _, err := game.ParseInput("jump"); err == nil {
		t.Fatal("expected error for unknown input")
	}
}

func TestPhase_CanTransitionTo(t *testing.T) {
	ok := [][2]game.Phase{
		{game.PhaseMenu, game.PhasePlaying},
		{game.PhasePlaying, game.PhaseGameOver},
		{game.PhaseGameOver, game.PhasePlaying},
		{game.PhaseGameOver, game.PhaseMenu},
	}
	for _, p := range ok {
		if !p[0].CanTransitionTo(p[1]) {
			t.Fatalf("%s -> %s should be allowed", p[0], p[1])
		}
	}
	if game.PhaseMenu.CanTransitionTo(game.PhaseGameOver) || game.PhasePlaying.CanTransitionTo(game.PhaseMenu) {
		t.Fatal("unexpected transition allowed")
	}
}

func TestController_FinalTickCarriesZero(t *testing.T) {
	c, rec, _ := newController(t, `{"Animals": "ABC"}`, game.WithSeconds(3))
	_ = c.StartGame()
	for i := 0; i < 3; i++ {
		_ = c.Tick()
	}

	var last game.Event
	for _, e := range rec.events {
		if e.Type == game.EventTimerTicked {
			last = e
		}
	}
	data, err := json.Marshal(last)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"remaining":0`) {
		t.Fatalf("final tick lost its remaining count: %s", data)
	}
}

func TestController_RandSourceReplaysEachGame(t *testing.T) {
	c, _, _ := newController(t, `{"Animals": "ABCDEFG", "Sports": "HIJKLMN", "Fruit$Vegetable": "OPQRSTU"}`,
		game.WithRandSource(func() game.Rand { return seeded() }),
		game.WithSeconds(3),
	)

	play := func() []game.RoundView {
		var seen []game.RoundView
		for i := 0; i < 10; i++ {
			seen = append(seen, c.Round().View())
			_ = c.RevealNext()
		}
		for c.Phase() == game.PhasePlaying {
			_ = c.Tick()
		}
		return seen
	}

	if err := c.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	first := play()
	for n := 2; n <= 3; n++ {
		if err := c.Restart(); err != nil {
			t.Fatalf("restart: %v", err)
		}
		again := play()
		for i := range first {
			if first[i].Key != again[i].Key || first[i].Letter != again[i].Letter {
				t.Fatalf("game %d round %d: %+v, first game had %+v", n, i+1, again[i], first[i])
			}
		}
	}
}
