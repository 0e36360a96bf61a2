package game

// Timer is the passive round countdown. It never reads a clock; the
// presentation layer (or a pulse driver) calls Tick once per beat.
type Timer struct {
	max       int
	remaining int
	running   bool
}

// NewTimer returns a stopped timer with max clamped to [MinSeconds, MaxSeconds].
func NewTimer(seconds int) *Timer {
	t := &Timer{}
	t.max = clampSeconds(seconds)
	t.remaining = t.max
	return t
}

func clampSeconds(s int) int {
	if s < MinSeconds {
		return MinSeconds
	}
	if s > MaxSeconds {
		return MaxSeconds
	}
	return s
}

// Configure sets max, clamped. It is refused while the timer runs.
func (t *Timer) Configure(seconds int) bool {
	if t.running {
		return false
	}
	t.max = clampSeconds(seconds)
	t.remaining = t.max
	return true
}

// Start begins a countdown from max.
func (t *Timer) Start() {
	t.remaining = t.max
	t.running = true
}

// Tick advances the countdown by one second. It reports true exactly once,
// on the tick that stops the timer. Ticks while stopped are ignored.
func (t *Timer) Tick() (expired bool) {
	if !t.running {
		return false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.running = false
		return true
	}
	return false
}

// Reset stops the timer and refills it.
func (t *Timer) Reset() {
	t.running = false
	t.remaining = t.max
}

func (t *Timer) Max() int { return t.max }
func (t *Timer) Remaining() int { return t.remaining }
func (t *Timer) Running() bool { return t.running }

// State returns a copy of the timer.
func (t *Timer) State() TimerState {
	return TimerState{Remaining: t.remaining, Max: t.max, Running: t.running}
}
