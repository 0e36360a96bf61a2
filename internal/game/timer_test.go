package game_test

import (
	"testing"

	"github.com/ongw/whatword/internal/game"
)

func TestTimer_ConfigureClamps(t *testing.T) {
	cases := []struct{ in, want int }{
		{2, 3}, {15, 10}, {7, 7}, {3, 3}, {10, 10}, {-4, 3},
	}
	for _, tc := range cases {
		tm := game.NewTimer(5)
		tm.Configure(tc.in)
		if tm.Max() != tc.want {
			t.Fatalf("Configure(%d): expected max %d, got %d", tc.in, tc.want, tm.Max())
		}
	}
}

func TestTimer_ConfigureRefusedWhileRunning(t *testing.T) {
	tm := game.NewTimer(5)
	tm.Start()
	if tm.Configure(8) {
		t.Fatal("expected Configure to be refused while running")
	}
	if tm.Max() != 5 {
		t.Fatalf("max changed to %d", tm.Max())
	}
}

func TestTimer_ExpiresExactlyOnce(t *testing.T) {
	for max := game.MinSeconds; max <= game.MaxSeconds; max++ {
		tm := game.NewTimer(max)
		tm.Start()
		if tm.Remaining() != max || !tm.Running() {
			t.Fatalf("start: remaining %d running %v", tm.Remaining(), tm.Running())
		}

		expired := 0
		for i := 0; i < max; i++ {
			if tm.Tick() {
				expired++
			}
		}
		if expired != 1 {
			t.Fatalf("max %d: expected one expiry, got %d", max, expired)
		}
		if tm.Running() {
			t.Fatalf("max %d: still running after %d ticks", max, max)
		}
		if tm.Tick() || tm.Tick() {
			t.Fatalf("max %d: expired again while stopped", max)
		}
		if tm.Remaining() != 0 {
			t.Fatalf("max %d: remaining %d", max, tm.Remaining())
		}
	}
}

func TestTimer_TickStoppedIsNoop(t *testing.T) {
	tm := game.NewTimer(4)
	if tm.Tick() {
		t.Fatal("tick on stopped timer reported expiry")
	}
	if tm.Remaining() != 4 {
		t.Fatalf("remaining changed to %d", tm.Remaining())
	}
}

func TestTimer_Reset(t *testing.T) {
	tm := game.NewTimer(6)
	tm.Start()
	tm.Tick()
	tm.Tick()
	tm.Reset()
	st := tm.State()
	if st.Running || st.Remaining != 6 || st.Max != 6 {
		t.Fatalf("unexpected state after reset %+v", st)
	}
}
