// Package pulse drives a passive timer from a fixed-interval ticker.
//
// The terminal UI ticks from its own animation loop; served games have no
// frame loop, so a pulse calls the tick function once per interval
// instead.
package pulse

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the subset of clockwork.Clock the driver needs.
// In production use clockwork.NewRealClock(), in tests a FakeClock.
type Clock interface {
	NewTicker(d time.Duration) clockwork.Ticker
}

// Start calls fn once per interval until parent is done or stop is called.
// The first call happens one full interval after Start. The ticker is
// registered before Start returns; stop cancels the loop and stops the
// ticker synchronously, so no tick is delivered once it returns.
func Start(parent context.Context, clock Clock, interval time.Duration, fn func()) (stop func()) {
	ctx, cancel := context.WithCancel(parent)
	t := clock.NewTicker(interval)
	go loop(ctx, t, fn)
	return func() {
		cancel()
		t.Stop()
	}
}

func loop(ctx context.Context, t clockwork.Ticker, fn func()) {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			// A tick and a cancel may be ready together; cancel wins.
			if ctx.Err() != nil {
				return
			}
			fn()
		}
	}
}
