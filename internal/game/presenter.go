package game

// Presenter receives state changes from the Controller. Implementations
// must not call back into the Controller from these methods.
type Presenter interface {
	RoundChanged(r Round)
	TimerStarted(remaining int)
	TimerTicked(remaining int)
	TimerExpired()
	PhaseChanged(p Phase)
	MaxChanged(max int)
}

// Audio plays sounds. Calls are fire-and-forget and never affect state.
type Audio interface {
	PlaySound(name string)
	PlayLoop(name string)
	StopLoop()
	Vibrate()
}

// NopPresenter ignores every event.
type NopPresenter struct{}

func (NopPresenter) RoundChanged(Round) {}
func (NopPresenter) TimerStarted(int) {}
func (NopPresenter) TimerTicked(int) {}
func (NopPresenter) TimerExpired() {}
func (NopPresenter) PhaseChanged(Phase) {}
func (NopPresenter) MaxChanged(int) {}

type nopAudio struct{}

func (nopAudio) PlaySound(string) {}
func (nopAudio) PlayLoop(string) {}
func (nopAudio) StopLoop() {}
func (nopAudio) Vibrate() {}

// EventSink adapts a function to Presenter by turning each callback into
// an Event. Used by the websocket hub and by tests.
type EventSink func(Event)

func (f EventSink) RoundChanged(r Round) {
	v := r.View()
	f(Event{Type: EventRoundChanged, Round: &v})
}

func (f EventSink) TimerStarted(remaining int) {
	f(Event{Type: EventTimerStarted, Remaining: remaining})
}

func (f EventSink) TimerTicked(remaining int) {
	f(Event{Type: EventTimerTicked, Remaining: remaining})
}

func (f EventSink) TimerExpired() { f(Event{Type: EventTimerExpired}) }

func (f EventSink) PhaseChanged(p Phase) { f(Event{Type: EventPhaseChanged, Phase: p}) }

func (f EventSink) MaxChanged(max int) { f(Event{Type: EventMaxChanged, Max: max}) }

// Presenters fans every event out to each member in order.
type Presenters []Presenter

func (ps Presenters) RoundChanged(r Round) {
	for _, p := range ps {
		p.RoundChanged(r)
	}
}

func (ps Presenters) TimerStarted(remaining int) {
	for _, p := range ps {
		p.TimerStarted(remaining)
	}
}

func (ps Presenters) TimerTicked(remaining int) {
	for _, p := range ps {
		p.TimerTicked(remaining)
	}
}

func (ps Presenters) TimerExpired() {
	for _, p := range ps {
		p.TimerExpired()
	}
}

func (ps Presenters) PhaseChanged(ph Phase) {
	for _, p := range ps {
		p.PhaseChanged(ph)
	}
}

func (ps Presenters) MaxChanged(max int) {
	for _, p := range ps {
		p.MaxChanged(max)
	}
}
