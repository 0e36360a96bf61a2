// internal/store/memory.go
//
// In-memory registry of served sessions.
//
// Characteristics:
//   - Stores *session.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; finished games survive in
//     the history store instead.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ongw/whatword/internal/session"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("not found")

// Store holds live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id uuid.UUID) (*session.Session, error)

	// Delete removes a session and closes it.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns every session, oldest first.
	List(ctx context.Context) ([]*session.Session, error)
}

type memory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session.Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[uuid.UUID]*session.Session)}
}

func (m *memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (m *memory) List(ctx context.Context) ([]*session.Session, error) {
	m.mu.RLock()
	out := make([]*session.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

// Sweep deletes sessions whose last input is older than now-idle and
// returns how many were removed.
func Sweep(ctx context.Context, st Store, now time.Time, idle time.Duration) (int, error) {
	all, err := st.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range all {
		if now.Sub(s.Touched()) < idle {
			continue
		}
		if err := st.Delete(ctx, s.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return n, err
		}
		n++
	}
	return n, nil
}
