package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/duotris/internal/match"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func result(id string, ended time.Time, scores ...int) match.Result {
	r := match.Result{MatchID: id, Leader: "Tied", EndedAt: ended}
	for i, score := range scores {
		r.Seats = append(r.Seats, match.SeatResult{
			Seat:     i + 1,
			PlayerID: "p" + string(rune('1'+i)),
			Name:     "Player " + string(rune('1'+i)),
			Score:    score,
			Lines:    score / 100,
		})
	}
	return r
}

func TestOpenCreatesFileAndDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "scores.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.duotris/scores.db")
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(filepath.Join(home, ".duotris", "scores.db"))
	assert.NoError(t, err)
}

func TestOpenTwiceKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveMatch(result("m1", time.Now(), 300, 100)))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	high, err := store.HighScore()
	require.NoError(t, err)
	assert.Equal(t, 300, high)
}

func TestSaveAndLoadMatch(t *testing.T) {
	store := openTestStore(t)
	r := result("m1", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), 300, 100)
	r.Leader = "Player 1"

	require.NoError(t, store.SaveMatchResult(r))

	got, err := store.MatchByID("m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Player 1", got.Leader)
	assert.True(t, got.CreatedAt.Equal(r.EndedAt), "created_at %s", got.CreatedAt)
	require.Len(t, got.Seats, 2)
	assert.Equal(t, "Player 1", got.Seats[0].Name)
	assert.Equal(t, 300, got.Seats[0].Score)
	assert.Equal(t, 3, got.Seats[0].Lines)
	assert.Equal(t, 2, got.Seats[1].Seat)
}

func TestMatchByIDUnknown(t *testing.T) {
	store := openTestStore(t)
	got, err := store.MatchByID("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveMatchTwiceFails(t *testing.T) {
	store := openTestStore(t)
	r := result("m1", time.Now(), 100, 0)

	require.NoError(t, store.SaveMatch(r))
	assert.Error(t, store.SaveMatch(r))

	recent, err := store.RecentMatches(10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestTopScores(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()
	require.NoError(t, store.SaveMatch(result("m1", now, 100, 800)))
	require.NoError(t, store.SaveMatch(result("m2", now, 500, 0)))

	top, err := store.TopScores(3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 800, top[0].Score)
	assert.Equal(t, "m1", top[0].MatchID)
	assert.Equal(t, 2, top[0].Seat)
	assert.Equal(t, 500, top[1].Score)
	assert.Equal(t, 100, top[2].Score)
}

func TestRecentMatchesNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.SaveMatch(result(id, base.Add(time.Duration(i)*time.Hour), i*100, 0)))
	}

	recent, err := store.RecentMatches(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "new", recent[0].MatchID)
	assert.Equal(t, "mid", recent[1].MatchID)
	require.Len(t, recent[0].Seats, 2)
	assert.Equal(t, 200, recent[0].Seats[0].Score)
}

func TestHighScoreEmpty(t *testing.T) {
	store := openTestStore(t)
	high, err := store.HighScore()
	require.NoError(t, err)
	assert.Zero(t, high)
}

func TestStoreRecordsFinishedMatch(t *testing.T) {
	store := openTestStore(t)
	m := match.New([]string{"Player 1", "Player 2"}, match.WithSeed(5), match.WithResultSaver(store))

	for i := 0; i < 5000 && !m.Over(); i++ {
		m.Tick()
	}
	require.True(t, m.Over())

	got, err := store.MatchByID(m.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Seats, 2)
}
