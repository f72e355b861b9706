package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/duotris/internal/game"
	"github.com/hersh/duotris/internal/player"
)

// constant always spawns the same shape.
type constant game.Shape

func (c constant) IntN(n int) int { return int(c) % n }

type recordingSaver struct {
	results []Result
	err     error
}

func (s *recordingSaver) SaveMatchResult(r Result) error {
	s.results = append(s.results, r)
	return s.err
}

func newTestMatch(t *testing.T, opts ...Option) *Match {
	t.Helper()
	opts = append([]Option{WithRandomizer(func(int) game.Randomizer { return constant(game.ShapeO) })}, opts...)
	return New([]string{"Player 1", "Player 2"}, opts...)
}

// runUntilOver ticks until the match ends; stacked O pieces reach the top
// after a bounded number of ticks.
func runUntilOver(t *testing.T, m *Match) {
	t.Helper()
	for i := 0; i < 1000 && !m.Over(); i++ {
		m.Tick()
	}
	require.True(t, m.Over())
}

func TestNewMatchSeats(t *testing.T) {
	m := newTestMatch(t)

	assert.NotEmpty(t, m.ID())
	assert.Equal(t, []Seat{{ID: "p1", Name: "Player 1"}, {ID: "p2", Name: "Player 2"}}, m.Seats())
	assert.Equal(t, PhasePlaying, m.GetPhase())
	assert.Equal(t, "Player 1: 0 | Player 2: 0 | Leader: Tied", m.Scoreboard().Label())

	snaps := m.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, "p1", snaps[0].Player)
	assert.Equal(t, "p2", snaps[1].Player)
}

func TestMatchIDsAreUnique(t *testing.T) {
	a := newTestMatch(t)
	b := newTestMatch(t)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestApplyRoutesToSeat(t *testing.T) {
	m := newTestMatch(t)

	require.True(t, m.Apply(0, CommandLeft))
	require.True(t, m.Apply(1, CommandRight))
	require.True(t, m.Apply(1, CommandDown))

	snaps := m.Snapshots()
	assert.Equal(t, 2, snaps[0].Active.X())
	assert.Equal(t, -2, snaps[0].Active.Y())
	assert.Equal(t, 4, snaps[1].Active.X())
	assert.Equal(t, -1, snaps[1].Active.Y())
}

func TestApplyRotate(t *testing.T) {
	m := New([]string{"solo"}, WithRandomizer(func(int) game.Randomizer { return constant(game.ShapeI) }))

	require.True(t, m.Apply(0, CommandRotate))
	assert.Equal(t, 1, m.Snapshots()[0].Active.Width())
}

func TestApplyRejectsUnknownSeatAndCommand(t *testing.T) {
	m := newTestMatch(t)
	assert.False(t, m.Apply(-1, CommandLeft))
	assert.False(t, m.Apply(2, CommandLeft))
	assert.False(t, m.Apply(0, Command(99)))
}

func TestTickAdvancesEveryBoard(t *testing.T) {
	m := newTestMatch(t)
	m.Tick()
	for _, snap := range m.Snapshots() {
		assert.Equal(t, -1, snap.Active.Y())
	}
}

func TestMatchEndsWhenEveryBoardIsOver(t *testing.T) {
	saver := &recordingSaver{}
	m := newTestMatch(t, WithResultSaver(saver))

	_, ok := m.Result()
	require.False(t, ok)

	runUntilOver(t, m)

	result, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, m.ID(), result.MatchID)
	assert.Equal(t, player.TiedLabel, result.Leader)
	require.Len(t, result.Seats, 2)
	assert.Equal(t, SeatResult{Seat: 1, PlayerID: "p1", Name: "Player 1"}, result.Seats[0])
	assert.False(t, result.EndedAt.IsZero())

	require.Len(t, saver.results, 1)
	assert.Equal(t, result, saver.results[0])

	m.Tick()
	assert.Len(t, saver.results, 1)
	assert.False(t, m.Apply(0, CommandLeft))
}

func TestGameOverChannelReportsEachSeat(t *testing.T) {
	m := newTestMatch(t)
	runUntilOver(t, m)

	var seats []string
	for i := 0; i < 2; i++ {
		select {
		case id := <-m.GetGameOverChan():
			seats = append(seats, id)
		default:
			t.Fatalf("expected game over %d", i)
		}
	}
	assert.ElementsMatch(t, []string{"p1", "p2"}, seats)
	assert.Equal(t, 0, m.Scoreboard().CountAlive())
}

func TestOneBoardOverKeepsMatchRunning(t *testing.T) {
	m := newTestMatch(t)

	// Moving seat 2's first piece aside leaves its centre stack one piece
	// behind seat 1's.
	for i := 0; i < 4; i++ {
		m.Apply(1, CommandRight)
	}
	for i := 0; i < 1000; i++ {
		m.Tick()
		if m.Snapshots()[0].GameOver {
			break
		}
	}

	snaps := m.Snapshots()
	require.True(t, snaps[0].GameOver)
	if !snaps[1].GameOver {
		assert.False(t, m.Over())
		assert.True(t, m.Apply(1, CommandLeft))
	}
}

func TestSaverErrorDoesNotBlockResult(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	m := newTestMatch(t, WithResultSaver(saver))

	runUntilOver(t, m)

	_, ok := m.Result()
	assert.True(t, ok)
	assert.Len(t, saver.results, 1)
}

func TestSeededMatchesAreReproducible(t *testing.T) {
	a := New([]string{"a", "b"}, WithSeed(99))
	b := New([]string{"a", "b"}, WithSeed(99))
	for i := 0; i < 100; i++ {
		a.Tick()
		b.Tick()
	}
	sa, sb := a.Snapshots(), b.Snapshots()
	for i := range sa {
		assert.Equal(t, sa[i].Grid, sb[i].Grid)
		assert.Equal(t, sa[i].Active, sb[i].Active)
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "rotate", CommandRotate.String())
	assert.Equal(t, "unknown", Command(-1).String())
	assert.Equal(t, "over", PhaseOver.String())
}
