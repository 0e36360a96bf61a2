package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ongw/whatword/assets"
)

// Result is one finished game.
type Result struct {
	GameID     string    `json:"gameId"`
	Mode       string    `json:"mode"`
	Day        string    `json:"day,omitempty"` // daily mode: date the rounds were seeded from
	Seconds    int       `json:"seconds"`       // round length the game was played at
	Rounds     int       `json:"rounds"`        // rounds shown before time ran out
	LastKey    string    `json:"lastKey"`       // category on screen when time ran out
	LastLetter string    `json:"lastLetter"`    // letter on screen when time ran out
	FinishedAt time.Time `json:"finishedAt"`
}

// timeLayout sorts lexically in chronological order (fixed-width, UTC).
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Store persists game results in SQLite.
type Store struct{ db *sql.DB }

// Open opens dsn and applies the embedded migrations.
func Open(dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	migrations, err := assets.Migrations()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts a finished game. A zero FinishedAt means now.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.Mode == "" {
		r.Mode = "classic"
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO game_results
            (game_id, mode, day, seconds, rounds, last_key, last_letter, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Mode, r.Day, r.Seconds, r.Rounds, r.LastKey, r.LastLetter,
		r.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

// Recent returns the latest results, newest first. Default limit is 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(ctx, `
        SELECT game_id, mode, day, seconds, rounds, last_key, last_letter, finished_at
        FROM game_results
        ORDER BY finished_at DESC, id DESC
        LIMIT ?`, limit)
}

// Best returns the longest games played at the given round length,
// ties broken by who got there first.
func (s *Store) Best(ctx context.Context, seconds, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(ctx, `
        SELECT game_id, mode, day, seconds, rounds, last_key, last_letter, finished_at
        FROM game_results
        WHERE seconds=?
        ORDER BY rounds DESC, finished_at ASC
        LIMIT ?`, seconds, limit)
}

// Daily returns the leaderboard for daily games seeded on date
// (YYYY-MM-DD) and played at the given round length. Only the first
// finished attempt of each game counts; restarts replay the same rounds.
// Most rounds first, ties broken by who got there first.
func (s *Store) Daily(ctx context.Context, date string, seconds, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(ctx, `
        SELECT game_id, mode, day, seconds, rounds, last_key, last_letter, finished_at
        FROM game_results r
        WHERE mode='daily' AND day=? AND seconds=?
          AND id = (SELECT MIN(f.id) FROM game_results f
                    WHERE f.game_id = r.game_id AND f.mode='daily' AND f.day=r.day AND f.seconds=r.seconds)
        ORDER BY rounds DESC, finished_at ASC
        LIMIT ?`, date, seconds, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var (
			r        Result
			finished string
		)
		if err := rows.Scan(&r.GameID, &r.Mode, &r.Day, &r.Seconds, &r.Rounds, &r.LastKey, &r.LastLetter, &finished); err != nil {
			return nil, err
		}
		r.FinishedAt, _ = time.Parse(timeLayout, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
