package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/ongw/whatword/internal/game"
)

func (s *Server) mountHistory(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/recent", s.handleRecent)
		r.Get("/best", s.handleBest)
	})
}

// GET /history/recent?limit=N
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", 20)
	if !ok {
		return
	}
	out, err := s.opts.History.Recent(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("recent results")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /history/best?seconds=N&limit=N
func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	seconds, ok := intParam(w, r, "seconds", s.opts.Seconds)
	if !ok {
		return
	}
	if seconds < game.MinSeconds || seconds > game.MaxSeconds {
		writeError(w, http.StatusBadRequest, "seconds_out_of_range")
		return
	}
	limit, ok := intParam(w, r, "limit", 20)
	if !ok {
		return
	}
	out, err := s.opts.History.Best(r.Context(), seconds, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("best results")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// intParam reads a positive integer query parameter, writing 400 when it
// does not parse.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "bad_"+name)
		return 0, false
	}
	return n, true
}
