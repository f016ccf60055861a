package daily

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	utc := time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-10", DateKey(utc))

	// Local times map to the UTC calendar date.
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2026-03-10", DateKey(time.Date(2026, 3, 11, 3, 0, 0, 0, tokyo)))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE daily_results (
		player_id  TEXT NOT NULL,
		date       TEXT NOT NULL,
		moves      INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		UNIQUE(player_id, date)
	)`)
	require.NoError(t, err)
	return NewStore(db)
}

func TestStoreInsertAndAlreadyPlayed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	played, err := s.AlreadyPlayed(ctx, "p1", "2026-03-10")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "p1", Date: "2026-03-10", Moves: 5, ElapsedMs: 42000}))

	played, err = s.AlreadyPlayed(ctx, "p1", "2026-03-10")
	require.NoError(t, err)
	assert.True(t, played)

	// Second insert for the same day is silently ignored.
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "p1", Date: "2026-03-10", Moves: 3, ElapsedMs: 1000}))

	rows, err := s.Leaderboard(ctx, "2026-03-10", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Moves, "first result stands")
}

func TestStoreLeaderboardOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "slow", Date: "2026-03-10", Moves: 7, ElapsedMs: 90000}))
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "fast", Date: "2026-03-10", Moves: 4, ElapsedMs: 30000}))
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "tied", Date: "2026-03-10", Moves: 4, ElapsedMs: 60000}))
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "other-day", Date: "2026-03-11", Moves: 1, ElapsedMs: 1000}))

	rows, err := s.Leaderboard(ctx, "2026-03-10", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "fast", rows[0].PlayerID)
	assert.Equal(t, "tied", rows[1].PlayerID)
	assert.Equal(t, "slow", rows[2].PlayerID)

	limited, err := s.Leaderboard(ctx, "2026-03-10", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
