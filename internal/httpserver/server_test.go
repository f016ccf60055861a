package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordladder/go-server/internal/daily"
	"github.com/wordladder/go-server/internal/game"
	"github.com/wordladder/go-server/internal/ladder"
	"github.com/wordladder/go-server/internal/lexicon"
	"github.com/wordladder/go-server/internal/pairs"
	"github.com/wordladder/go-server/internal/store"
)

// newTestServer wires a full server against an in-memory SQLite database
// loaded with the real schema.
func newTestServer(t *testing.T) (*Server, store.Store, *sql.DB) {
	t.Helper()

	lex, err := lexicon.New()
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../sql/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	finder := ladder.NewFinder(lex)
	selector := pairs.NewSelector(nil)
	engine := game.NewEngine(lex, finder, selector, nil)
	mem := store.NewMemoryStore()
	return New(mem, db, engine, lex), mem, db
}

// do runs one request through the router, carrying any cookies given.
func do(t *testing.T, s *Server, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func seedGame(t *testing.T, mem store.Store, start, target string) *game.Game {
	t.Helper()
	g := &game.Game{
		ID:          "testgame",
		StartWord:   start,
		TargetWord:  target,
		CurrentWord: start,
		Moves:       []string{},
		Status:      game.StatusInProgress,
		Difficulty:  pairs.Medium,
		Mode:        game.ModeClassic,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, mem.Save(context.Background(), g))
	return g
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestNotFoundIsJSON(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)
}

func TestCreateGameEndpoint(t *testing.T) {
	s, _, db := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/games", map[string]any{
		"difficulty": "EASY", "gameMode": "CLASSIC", "wordLength": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[gameRes](t, rec)
	assert.NotEmpty(t, res.GameID)
	assert.Equal(t, "in_progress", res.Status)
	assert.Equal(t, "EASY", res.Difficulty)
	assert.Equal(t, "CLASSIC", res.GameMode)
	assert.Equal(t, 4, res.WordLength)
	assert.Equal(t, res.StartWord, res.CurrentWord)
	assert.Empty(t, res.Moves)

	// Guests get a stable anonymous identity.
	var anon *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == anonCookieName {
			anon = c
		}
	}
	require.NotNil(t, anon, "anon cookie must be set")

	// A history row is written for the anonymous owner.
	var owner string
	require.NoError(t, db.QueryRow(`SELECT anonymous_id FROM games WHERE id=?`, res.GameID).Scan(&owner))
	assert.Equal(t, anon.Value, owner)
}

func TestCreateGameEndpointNormalizesDifficulty(t *testing.T) {
	s, _, db := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/games", map[string]any{
		"difficulty": "easy", "gameMode": "CLASSIC", "wordLength": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[gameRes](t, rec)
	assert.Equal(t, "EASY", res.Difficulty)

	var stored string
	require.NoError(t, db.QueryRow(`SELECT difficulty FROM games WHERE id=?`, res.GameID).Scan(&stored))
	assert.Equal(t, "EASY", stored)
}

func TestGetGameEndpoint(t *testing.T) {
	s, mem, _ := newTestServer(t)
	seedGame(t, mem, "COLD", "WARM")

	rec := do(t, s, http.MethodGet, "/games/testgame", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[gameRes](t, rec)
	assert.Equal(t, "COLD", res.StartWord)
	assert.Equal(t, "WARM", res.TargetWord)

	rec = do(t, s, http.MethodGet, "/games/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoveEndpoint(t *testing.T) {
	s, mem, _ := newTestServer(t)
	seedGame(t, mem, "COLD", "WARM")

	rec := do(t, s, http.MethodPost, "/games/testgame/move", map[string]string{"word": "cord"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[moveRes](t, rec)
	assert.True(t, res.Valid)
	assert.Equal(t, "CORD", res.Word)
	assert.False(t, res.IsTarget)
	assert.Equal(t, []string{"CORD"}, res.Path)

	// Rejections carry a machine-readable kind.
	rec = do(t, s, http.MethodPost, "/games/testgame/move", map[string]string{"word": "ZZZZ"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"invalid_word"`)

	rec = do(t, s, http.MethodPost, "/games/testgame/move", map[string]string{"word": "WARD"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"illegal_move"`)

	rec = do(t, s, http.MethodPost, "/games/missing/move", map[string]string{"word": "CORD"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoveEndpointTerminalConflict(t *testing.T) {
	s, mem, _ := newTestServer(t)
	g := seedGame(t, mem, "COLD", "WARM")
	g.Status = game.StatusCompleted

	rec := do(t, s, http.MethodPost, "/games/testgame/move", map[string]string{"word": "CORD"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"game_terminal"`)
}

func TestHintEndpoint(t *testing.T) {
	s, mem, _ := newTestServer(t)
	seedGame(t, mem, "COLD", "WARM")

	rec := do(t, s, http.MethodPost, "/games/testgame/hint", map[string]int{"hintLevel": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	hint := decode[game.Hint](t, rec)
	assert.Equal(t, game.HintLetter, hint.Type)
	assert.Equal(t, "W", hint.SuggestedLetter)

	// Missing level defaults to the distance hint.
	rec = do(t, s, http.MethodPost, "/games/testgame/hint", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hint = decode[game.Hint](t, rec)
	assert.Equal(t, game.HintSemantic, hint.Type)
}

func TestDailyChallengeEndpoints(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/daily-challenge", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ch := decode[game.DailyChallenge](t, rec)
	assert.Equal(t, daily.DateKey(time.Now()), ch.Date)
	assert.Contains(t, []int{4, 5}, ch.WordLength)
	assert.NotEmpty(t, ch.StartWord)

	// First result is recorded; the second for the same identity is not.
	rec = do(t, s, http.MethodPost, "/daily-challenge/result", map[string]int{"moves": 5, "elapsedMs": 42000})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[resultRes](t, rec)
	assert.True(t, res.Recorded)
	assert.False(t, res.Played)

	var anon *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == anonCookieName {
			anon = c
		}
	}
	require.NotNil(t, anon)

	rec = do(t, s, http.MethodPost, "/daily-challenge/result", map[string]int{"moves": 3, "elapsedMs": 1000}, anon)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[resultRes](t, rec)
	assert.False(t, res.Recorded)
	assert.True(t, res.Played)

	rec = do(t, s, http.MethodGet, "/daily-challenge/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[lbRes](t, rec)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 5, lb.Top[0].Moves)

	// Garbage results are rejected.
	rec = do(t, s, http.MethodPost, "/daily-challenge/result", map[string]int{"moves": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func authCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "wordladder_token" {
			return c
		}
	}
	t.Fatal("auth cookie not set")
	return nil
}

func TestAuthFlow(t *testing.T) {
	s, mem, db := newTestServer(t)

	// Weak credentials are rejected before any row is written.
	rec := do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "al", "password": "longenough1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "alice", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "alice", "password": "correcthorse"})
	require.Equal(t, http.StatusOK, rec.Code)
	signed := decode[map[string]any](t, rec)
	userID, _ := signed["id"].(string)
	require.NotEmpty(t, userID)
	cookie := authCookie(t, rec)

	// Duplicate usernames conflict, case-insensitively.
	rec = do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "ALICE", "password": "correcthorse"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Wrong password fails; the right one succeeds.
	rec = do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "wrongwrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "correcthorse"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Gated routes demand the token.
	rec = do(t, s, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, s, http.MethodGet, "/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[authUser](t, rec)
	assert.Equal(t, "alice", me.Username)

	// Completing a game as this user bumps stats.
	g := seedGame(t, mem, "COLD", "WARM")
	g.PlayerID = userID
	_, err := db.Exec(`INSERT INTO games (id, user_id, start_word, target_word, difficulty, mode, moves, status, started_at)
	                   VALUES (?,?,?,?,?,?,0,?,?)`,
		g.ID, userID, "COLD", "WARM", "MEDIUM", "CLASSIC", "in_progress", time.Now().UTC().Format(time.RFC3339))
	require.NoError(t, err)

	for _, w := range []string{"CORD", "WORD", "WORM", "WARM"} {
		rec = do(t, s, http.MethodPost, "/games/testgame/move", map[string]string{"word": w}, cookie)
		require.Equal(t, http.StatusOK, rec.Code, "move %s", w)
	}

	rec = do(t, s, http.MethodGet, "/stats/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), stats["gamesPlayed"])
	assert.Equal(t, float64(1), stats["wins"])
	assert.Equal(t, float64(1), stats["streak"])

	rec = do(t, s, http.MethodGet, "/games/mine", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "completed", mine[0]["status"])
	assert.Equal(t, float64(4), mine[0]["moves"])

	// Logout clears the cookie.
	rec = do(t, s, http.MethodPost, "/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	cleared := authCookie(t, rec)
	assert.Empty(t, cleared.Value)
}
