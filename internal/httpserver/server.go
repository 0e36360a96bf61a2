// internal/httpserver/server.go
//
// HTTP server wiring for served games.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health", "/categories".
//   - Game endpoints: create, inspect, act on and delete sessions; actions
//     require the host token handed out at creation.
//   - WebSocket stream per game, mounted outside the REST timeout.
//   - History endpoints backed by SQLite; daily leaderboard under /daily.
//   - Idle-session sweeper while running.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/ongw/whatword/internal/audio"
	"github.com/ongw/whatword/internal/catalog"
	"github.com/ongw/whatword/internal/game"
	"github.com/ongw/whatword/internal/history"
	"github.com/ongw/whatword/internal/hub"
	"github.com/ongw/whatword/internal/session"
	"github.com/ongw/whatword/internal/store"
)

// History is the persistence the server needs. *history.Store satisfies it.
type History interface {
	session.Recorder
	Recent(ctx context.Context, limit int) ([]history.Result, error)
	Best(ctx context.Context, seconds, limit int) ([]history.Result, error)
	Daily(ctx context.Context, date string, seconds, limit int) ([]history.Result, error)
}

// Options configures a Server. Catalog, Store and History are required.
type Options struct {
	Catalog *catalog.Catalog
	Store   store.Store
	History History
	Hub     *hub.Hub
	Clock   clockwork.Clock
	Audio   game.Audio // cues for served controllers; default logs them

	Seconds      int           // default round length for new games
	Pulse        time.Duration // timer tick interval
	JWTSecret    string
	TokenTTL     time.Duration
	ClientOrigin string
	DailySalt    string
	IdleTimeout  time.Duration // sessions without input for this long are swept
}

// Server bundles router, session store and history.
type Server struct {
	r      *chi.Mux
	opts   Options
	tokens *tokens
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Hub == nil {
		o.Hub = hub.New(hub.DefaultConfig())
	}
	if o.Audio == nil {
		o.Audio = audio.Logged{}
	}
	if o.Pulse <= 0 {
		o.Pulse = time.Second
	}
	if o.Seconds == 0 {
		o.Seconds = game.DefaultSeconds
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 12 * time.Hour
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 30 * time.Minute
	}
	s := &Server{
		r:      chi.NewRouter(),
		opts:   o,
		tokens: &tokens{secret: []byte(o.JWTSecret), ttl: o.TokenTTL, clock: o.Clock},
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{o.ClientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)

	// WebSocket stream: long-lived, so no handler timeout.
	s.r.Get("/games/{id}/ws", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "whatword",
				"endpoints": []string{
					"/health", "/categories", "POST /games", "GET /games/{id}",
					"POST /games/{id}/actions/{action}", "DELETE /games/{id}",
					"/games/{id}/ws", "/history/recent", "/history/best", "/daily",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/categories", s.handleCategories)

		s.mountGames(r)
		s.mountHistory(r)
		s.mountDaily(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found")
		})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves on addr until ctx is done, sweeping idle sessions meanwhile.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.closeAll()
	return nil
}

// sweep drops sessions nobody has touched for IdleTimeout.
func (s *Server) sweep(ctx context.Context) {
	t := s.opts.Clock.NewTicker(s.opts.IdleTimeout / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			n, err := store.Sweep(ctx, s.opts.Store, s.opts.Clock.Now(), s.opts.IdleTimeout)
			if err != nil {
				log.Warn().Err(err).Msg("sweep sessions")
				continue
			}
			if n > 0 {
				log.Info().Int("removed", n).Msg("swept idle sessions")
			}
		}
	}
}

func (s *Server) closeAll() {
	ctx := context.Background()
	all, err := s.opts.Store.List(ctx)
	if err != nil {
		return
	}
	for _, sess := range all {
		_ = s.opts.Store.Delete(ctx, sess.ID)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	type categoryRes struct {
		Key     string   `json:"key"`
		Lines   []string `json:"lines"`
		Letters string   `json:"letters"`
	}
	entries := s.opts.Catalog.Entries()
	out := make([]categoryRes, 0, len(entries))
	for _, c := range entries {
		out = append(out, categoryRes{Key: c.Key, Lines: c.Lines(), Letters: c.Letters})
	}
	writeJSON(w, http.StatusOK, out)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
