package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ongw/whatword/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "whatword.db")
	st, err := history.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRecord_RecentAndBest(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	results := []history.Result{
		{GameID: "a", Seconds: 5, Rounds: 3, LastKey: "Animals", LastLetter: "B", FinishedAt: base},
		{GameID: "b", Seconds: 5, Rounds: 7, FinishedAt: base.Add(time.Minute)},
		{GameID: "c", Seconds: 8, Rounds: 9, Mode: "daily", FinishedAt: base.Add(2 * time.Minute)},
		{GameID: "d", Seconds: 5, Rounds: 7, FinishedAt: base.Add(3 * time.Minute)},
	}
	for _, r := range results {
		if err := st.Record(ctx, r); err != nil {
			t.Fatalf("record %s: %v", r.GameID, err)
		}
	}

	recent, err := st.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].GameID != "d" || recent[1].GameID != "c" {
		t.Fatalf("unexpected recent %+v", recent)
	}
	if recent[1].Mode != "daily" || recent[0].Mode != "classic" {
		t.Fatalf("unexpected modes %q, %q", recent[0].Mode, recent[1].Mode)
	}
	if !recent[1].FinishedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("finished_at round trip: %v", recent[1].FinishedAt)
	}

	best, err := st.Best(ctx, 5, 0)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if len(best) != 3 || best[0].GameID != "b" || best[1].GameID != "d" || best[2].GameID != "a" {
		t.Fatalf("unexpected best %+v", best)
	}
	if best[2].LastKey != "Animals" || best[2].LastLetter != "B" {
		t.Fatalf("last round not stored: %+v", best[2])
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whatword.db")
	st, err := history.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Record(context.Background(), history.Result{GameID: "x", Seconds: 3, Rounds: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = st.Close()

	again, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	got, err := again.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].GameID != "x" {
		t.Fatalf("expected surviving row, got %+v", got)
	}
}

func TestDaily_RanksBySeedDayAndFirstAttempt(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	day := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	for _, r := range []history.Result{
		{GameID: "classic", Mode: "classic", Seconds: 5, Rounds: 20, FinishedAt: day},
		{GameID: "yesterday", Mode: "daily", Day: "2026-10-15", Seconds: 5, Rounds: 30, FinishedAt: day.Add(-24 * time.Hour)},
		{GameID: "slow", Mode: "daily", Day: "2026-10-16", Seconds: 5, Rounds: 4, FinishedAt: day.Add(time.Hour)},
		{GameID: "fast", Mode: "daily", Day: "2026-10-16", Seconds: 5, Rounds: 6, FinishedAt: day.Add(2 * time.Hour)},
		// Started before midnight, finished after: still today's board.
		{GameID: "late", Mode: "daily", Day: "2026-10-16", Seconds: 5, Rounds: 5, FinishedAt: day.Add(15 * time.Hour)},
		// Restarts of "slow" replay the same rounds and do not count.
		{GameID: "slow", Mode: "daily", Day: "2026-10-16", Seconds: 5, Rounds: 40, FinishedAt: day.Add(3 * time.Hour)},
		{GameID: "slow", Mode: "daily", Day: "2026-10-16", Seconds: 5, Rounds: 41, FinishedAt: day.Add(4 * time.Hour)},
		// Another round length is another board.
		{GameID: "long", Mode: "daily", Day: "2026-10-16", Seconds: 8, Rounds: 9, FinishedAt: day},
	} {
		if err := st.Record(ctx, r); err != nil {
			t.Fatalf("record %s: %v", r.GameID, err)
		}
	}

	got, err := st.Daily(ctx, "2026-10-16", 5, 0)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	var ids []string
	for _, r := range got {
		ids = append(ids, r.GameID)
	}
	if len(got) != 3 || ids[0] != "fast" || ids[1] != "late" || ids[2] != "slow" {
		t.Fatalf("unexpected leaderboard %v", ids)
	}
	if got[2].Rounds != 4 || got[2].Day != "2026-10-16" {
		t.Fatalf("expected the first attempt of slow, got %+v", got[2])
	}

	long, err := st.Daily(ctx, "2026-10-16", 8, 0)
	if err != nil || len(long) != 1 || long[0].GameID != "long" {
		t.Fatalf("8s board: %+v %v", long, err)
	}
}
