// internal/httpserver/routes_games.go
//
// Game endpoints:
//   - POST   /games                        → new session + host token
//   - GET    /games/{id}                   → snapshot (anyone with the id)
//   - POST   /games/{id}/actions/{action}  → drive the session (host token)
//   - DELETE /games/{id}                   → end the session (host token)
//   - GET    /games/{id}/ws                → event stream; host token enables actions

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/ongw/whatword/internal/daily"
	"github.com/ongw/whatword/internal/game"
	"github.com/ongw/whatword/internal/session"
	"github.com/ongw/whatword/internal/store"
)

const (
	modeClassic = "classic"
	modeDaily   = "daily"
)

func (s *Server) mountGames(r chi.Router) {
	r.Post("/games", s.handleNewGame)
	r.Get("/games/{id}", s.handleGetGame)
	r.Post("/games/{id}/actions/{action}", s.handleAction)
	r.Delete("/games/{id}", s.handleDeleteGame)
}

// newGameReq/Res payloads for POST /games.
type newGameReq struct {
	Seconds int    `json:"seconds"` // 0 uses the server default; clamped to 3..10
	Mode    string `json:"mode"`    // "classic" (default) | "daily"
}
type newGameRes struct {
	GameID    string        `json:"gameId"`
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expiresAt"`
	Mode      string        `json:"mode"`
	State     game.Snapshot `json:"state"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Mode == "" {
		req.Mode = modeClassic
	}
	if req.Seconds == 0 {
		req.Seconds = s.opts.Seconds
	}

	opts := session.Options{
		Mode:     req.Mode,
		Seconds:  req.Seconds,
		Pulse:    s.opts.Pulse,
		Clock:    s.opts.Clock,
		Audio:    s.opts.Audio,
		Recorder: s.opts.History,
	}
	switch req.Mode {
	case modeClassic:
	case modeDaily:
		// Every start and restart replays the sequence seeded on the day
		// the game was created.
		seeded, salt := s.opts.Clock.Now(), s.opts.DailySalt
		opts.Day = daily.DateKey(seeded)
		opts.NewRand = func() game.Rand { return daily.Rand(seeded, salt) }
	default:
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}

	sess := session.New(s.opts.Catalog, opts)
	tok, exp, err := s.tokens.sign(sess.ID)
	if err != nil {
		sess.Close()
		hlog.FromRequest(r).Error().Err(err).Msg("sign host token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	if err := s.opts.Store.Save(r.Context(), sess); err != nil {
		sess.Close()
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Info().
		Str("game_id", sess.ID.String()).
		Str("mode", sess.Mode).
		Msg("game created")

	writeJSON(w, http.StatusCreated, newGameRes{
		GameID:    sess.ID.String(),
		Token:     tok,
		ExpiresAt: exp.Unix(),
		Mode:      sess.Mode,
		State:     sess.Snapshot(),
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok || !s.authorize(w, r, sess.ID) {
		return
	}
	in, err := game.ParseInput(chi.URLParam(r, "action"))
	if err != nil || in == game.InputTick {
		writeError(w, http.StatusBadRequest, "unknown_action")
		return
	}

	snap, err := sess.Dispatch(r.Context(), in)
	switch {
	case errors.Is(err, game.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]any{"error": "invalid_transition", "state": snap})
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusNotFound, "not_found")
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("action", string(in)).Msg("dispatch")
		writeError(w, http.StatusInternalServerError, "dispatch_failed")
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok || !s.authorize(w, r, sess.ID) {
		return
	}
	if err := s.opts.Store.Delete(r.Context(), sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		hlog.FromRequest(r).Error().Err(err).Msg("delete session")
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	s.opts.Hub.CloseGame(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleStream upgrades to a websocket. Anyone with the id may watch; a
// valid host token also lets the client send actions.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	canAct := false
	if raw := bearer(r); raw != "" {
		if err := s.tokens.check(raw, sess.ID); err != nil {
			status, code := tokenStatus(err)
			writeError(w, status, code)
			return
		}
		canAct = true
	}
	if err := s.opts.Hub.Serve(w, r, sess, canAct); err != nil {
		// The upgrader has already written the HTTP error.
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade")
	}
}

// lookup resolves {id}, writing 404 when it is malformed or unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	sess, err := s.opts.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) bool {
	if err := s.tokens.check(bearer(r), gameID); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("game_id", gameID.String()).Msg("rejected host token")
		status, code := tokenStatus(err)
		writeError(w, status, code)
		return false
	}
	return true
}
