// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily game.
// Daily games are created through POST /games with mode "daily"; every
// daily game started on the same UTC date sees the same sequence of
// rounds, derived from date + salt. This file exposes the day's results:
//   - GET /daily              → today's date and leaderboard
//   - GET /daily/leaderboard  → leaderboard for ?date=YYYY-MM-DD (default today)
// Both take ?seconds=N (default: the server's round length); games played at
// different round lengths are ranked separately.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/ongw/whatword/internal/daily"
	"github.com/ongw/whatword/internal/history"
)

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyToday)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

type dailyRes struct {
	Date        string           `json:"date"`
	Seconds     int              `json:"seconds"`
	Leaderboard []history.Result `json:"leaderboard"`
}

func (s *Server) handleDailyToday(w http.ResponseWriter, r *http.Request) {
	s.writeLeaderboard(w, r, daily.DateKey(s.opts.Clock.Now()))
}

func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.opts.Clock.Now())
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	s.writeLeaderboard(w, r, date)
}

func (s *Server) writeLeaderboard(w http.ResponseWriter, r *http.Request, date string) {
	seconds, ok := intParam(w, r, "seconds", s.opts.Seconds)
	if !ok {
		return
	}
	rows, err := s.opts.History.Daily(r.Context(), date, seconds, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("date", date).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, dailyRes{Date: date, Seconds: seconds, Leaderboard: rows})
}
