// internal/httpserver/routes_daily.go
//
// HTTP routes for the Daily Challenge.
// Exposes three endpoints:
//   - GET  /daily-challenge              → today's deterministic puzzle
//   - POST /daily-challenge/result       → record a finished run (once per day)
//   - GET  /daily-challenge/leaderboard  → top 20 results for today (or a given date)
//
// The puzzle itself is computed by the engine from the calendar date, so
// there is nothing to create or store per session; only finished runs are
// persisted, one per player per date.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wordladder/go-server/internal/daily"
)

// dailyServer wraps dependencies for the daily-challenge endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
}

// mountDaily registers all /daily-challenge routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{srv: s, store: daily.NewStore(s.db)}
	r.Route("/daily-challenge", func(r chi.Router) {
		r.Get("/", dd.handleChallenge)
		r.Post("/result", dd.handleResult)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the authenticated user ID if logged in, otherwise the
// anonymous cookie identity.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// handleChallenge returns today's puzzle. Identical payload for every call
// on the same UTC date.
func (d *dailyServer) handleChallenge(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(d.srv.engine.DailyChallenge())
}

// resultReq is the payload for POST /daily-challenge/result.
type resultReq struct {
	Moves     int `json:"moves"`
	ElapsedMs int `json:"elapsedMs"`
}

// resultRes reports whether the run was recorded; Played is true when the
// player had already submitted a result for the date.
type resultRes struct {
	Date     string `json:"date"`
	Recorded bool   `json:"recorded"`
	Played   bool   `json:"played"`
}

// handleResult records a finished daily run. One result per player per
// date; repeats are reported, not stored.
func (d *dailyServer) handleResult(w http.ResponseWriter, r *http.Request) {
	var req resultReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Moves <= 0 {
		http.Error(w, `{"error":"invalid_result"}`, http.StatusBadRequest)
		return
	}

	pid := d.playerID(w, r)
	date := daily.DateKey(time.Now())

	if played, err := d.store.AlreadyPlayed(r.Context(), pid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(resultRes{Date: date, Recorded: false, Played: true})
		return
	}

	err := d.store.InsertResult(r.Context(), daily.Result{
		PlayerID: pid, Date: date, Moves: req.Moves, ElapsedMs: req.ElapsedMs,
	})
	if err != nil {
		log.Warn().Err(err).Msg("insert daily result")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(resultRes{Date: date, Recorded: true, Played: false})
}

// lbRes is returned by /daily-challenge/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
