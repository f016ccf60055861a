// internal/httpserver/server.go
//
// HTTP server wiring for the word-ladder backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): POST /games, GET /games/{id},
//     POST /games/{id}/move, POST /games/{id}/hint.
//   - Daily Challenge endpoints (optional auth): mounted under /daily-challenge.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me, /games/mine.
//   - Per-game-ID locking: the engine assumes one in-flight request per game,
//     so this layer serializes move/hint handling per game identifier.
//   - Database persistence for game records and user stats.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes can still run for guests.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wordladder/go-server/internal/game"
	"github.com/wordladder/go-server/internal/lexicon"
	"github.com/wordladder/go-server/internal/pairs"
	"github.com/wordladder/go-server/internal/store"
)

// Server bundles router, live-game store, engine, lexicon, and DB handle.
type Server struct {
	r      *chi.Mux
	store  store.Store
	db     *sql.DB
	engine *game.Engine
	lex    *lexicon.Lexicon

	// locks serializes access per game ID (one in-flight request per game).
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, engine *game.Engine, lex *lexicon.Lexicon) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		db:     db,
		engine: engine,
		lex:    lex,
		locks:  make(map[string]*sync.Mutex),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordladder-go","endpoints":["/health","POST /games","GET /games/{id}","POST /games/{id}/move","POST /games/{id}/hint","GET /daily-challenge","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		curated, corpus, semnet := s.lex.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{
			"curated": curated, "corpus": corpus, "semnet": semnet,
		})
	})

	// Game endpoints — OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/games", s.handleCreateGame)
	s.r.With(s.withOptionalAuth()).Get("/games/{gameID}", s.handleGetGame)
	s.r.With(s.withOptionalAuth()).Post("/games/{gameID}/move", s.handleMove)
	s.r.With(s.withOptionalAuth()).Post("/games/{gameID}/hint", s.handleHint)

	// Daily Challenge — OPTIONAL AUTH (guests can play; results keyed by anon ID)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// gameLock returns the mutex owning the given game ID, creating it on first
// use. Entries are never removed; the live-game population is bounded by
// process lifetime, matching the in-memory store.
func (s *Server) gameLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if mu, ok := s.locks[id]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	s.locks[id] = mu
	return mu
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// createGameReq is the payload for POST /games.
type createGameReq struct {
	Difficulty string `json:"difficulty"` // EASY | MEDIUM | HARD
	GameMode   string `json:"gameMode"`   // CLASSIC | TIMED
	WordLength int    `json:"wordLength"` // 4 | 5
	PlayerID   string `json:"playerId"`   // optional, overridden by auth
}

// gameRes is the game snapshot returned by create/get.
type gameRes struct {
	GameID      string   `json:"gameId"`
	StartWord   string   `json:"startWord"`
	TargetWord  string   `json:"targetWord"`
	CurrentWord string   `json:"currentWord"`
	Moves       []string `json:"moves"`
	Status      string   `json:"status"`
	Difficulty  string   `json:"difficulty"`
	GameMode    string   `json:"gameMode"`
	CreatedAt   string   `json:"createdAt"`
	TimeElapsed int      `json:"timeElapsed"`
	WordLength  int      `json:"wordLength"`
}

func snapshot(g *game.Game) gameRes {
	moves := append([]string{}, g.Moves...)
	return gameRes{
		GameID:      g.ID,
		StartWord:   g.StartWord,
		TargetWord:  g.TargetWord,
		CurrentWord: g.CurrentWord,
		Moves:       moves,
		Status:      string(g.Status),
		Difficulty:  string(g.Difficulty),
		GameMode:    string(g.Mode),
		CreatedAt:   g.CreatedAt.UTC().Format(time.RFC3339),
		TimeElapsed: g.TimeElapsed,
		WordLength:  len(g.StartWord),
	}
}

// handleCreateGame creates a new in-memory game and persists a DB record
// (owned by either user_id or anonymous_id) for history/stats.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	mode := game.ModeClassic
	if game.Mode(req.GameMode) == game.ModeTimed {
		mode = game.ModeTimed
	}

	playerID := req.PlayerID
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me != nil {
		playerID = me.ID
	}

	g := s.engine.CreateGame(pairs.Difficulty(req.Difficulty), mode, req.WordLength, playerID)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist the owner row (best effort, non-fatal if it fails).
	now := time.Now().UTC().Format(time.RFC3339)
	ownerCol, ownerID := "anonymous_id", s.ensureAnonID(w, r)
	if me != nil {
		ownerCol, ownerID = "user_id", me.ID
	}
	if _, err := s.db.Exec(`INSERT INTO games (id, `+ownerCol+`, start_word, target_word, difficulty, mode, moves, status, started_at)
	                        VALUES (?,?,?,?,?,?,0,?,?)`,
		g.ID, ownerID, g.StartWord, g.TargetWord, string(g.Difficulty), string(g.Mode), string(g.Status), now); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	_ = json.NewEncoder(w).Encode(snapshot(g))
}

// handleGetGame returns the current snapshot of a game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	mu := s.gameLock(id)
	mu.Lock()
	res := snapshot(g)
	mu.Unlock()
	_ = json.NewEncoder(w).Encode(res)
}

// moveReq/moveRes payloads for POST /games/{id}/move.
type moveReq struct {
	Word string `json:"word"`
}
type moveRes struct {
	Valid      bool     `json:"valid"`
	Word       string   `json:"word"`
	IsTarget   bool     `json:"isTarget"`
	MovesCount int      `json:"movesCount"`
	Path       []string `json:"path"`
	Message    string   `json:"message"`
}

// handleMove applies a move to an in-memory game, persists progress,
// and (if finished) updates user stats in a best-effort transaction.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "gameID")
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	mu := s.gameLock(id)
	mu.Lock()
	result, moveErr := s.engine.MakeMove(g, req.Word)
	status := g.Status
	mu.Unlock()

	if moveErr != nil {
		// The TIMED expiry mutates status even though the move failed.
		if status.Terminal() {
			s.finishGameRow(w, r, g)
		}
		writeMoveError(w, moveErr)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	s.persistMove(w, r, g)

	_ = json.NewEncoder(w).Encode(moveRes{
		Valid:      true,
		Word:       lexicon.Normalize(req.Word),
		IsTarget:   result.IsTarget,
		MovesCount: result.MovesCount,
		Path:       result.Path,
		Message:    result.Message,
	})
}

// writeMoveError maps engine errors to HTTP rejections carrying an error
// kind and human-readable detail.
func writeMoveError(w http.ResponseWriter, err error) {
	kind, code := "invalid_move", http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrInvalidWord):
		kind = "invalid_word"
	case errors.Is(err, game.ErrIllegalMove):
		kind = "illegal_move"
	case errors.Is(err, game.ErrGameTerminal):
		kind, code = "game_terminal", http.StatusConflict
	case errors.Is(err, game.ErrTimeExceeded):
		kind, code = "time_exceeded", http.StatusConflict
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind, "detail": err.Error()})
}

// persistMove bumps the stored move counter and, when the game just ended,
// finalizes the record and updates user stats. All best effort.
func (s *Server) persistMove(w http.ResponseWriter, r *http.Request, g *game.Game) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerClause, ownerArg := `anonymous_id=?`, any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause, ownerArg = `user_id=?`, any(me.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin move tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET moves = moves + 1 WHERE id=? AND `+ownerClause, g.ID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update moves")
	}

	if g.Status.Terminal() {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			string(g.Status), time.Now().UTC().Format(time.RFC3339), g.ID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := s.bumpStats(tx, me.ID, g.Status == game.StatusCompleted); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = tx.Commit()
}

// finishGameRow marks the DB record terminal without touching counters.
// Used when the TIMED wall clock abandons a game on a rejected move.
func (s *Server) finishGameRow(w http.ResponseWriter, r *http.Request, g *game.Game) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerClause, ownerArg := `anonymous_id=?`, any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause, ownerArg = `user_id=?`, any(me.ID)
	}
	if _, err := s.db.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
		string(g.Status), time.Now().UTC().Format(time.RFC3339), g.ID, ownerArg); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("mark game abandoned")
	}
}

// hintReq payload for POST /games/{id}/hint.
type hintReq struct {
	HintLevel int `json:"hintLevel"`
}

// handleHint produces a hint for the game's current position. Hints never
// mutate game state, but they share the per-game lock so a concurrent move
// cannot race the read.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.HintLevel == 0 {
		req.HintLevel = 1
	}

	id := chi.URLParam(r, "gameID")
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	mu := s.gameLock(id)
	mu.Lock()
	hint := s.engine.GetHint(g, req.HintLevel)
	mu.Unlock()

	_ = json.NewEncoder(w).Encode(hint)
}
