package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/duotris/internal/config"
	"github.com/hersh/duotris/internal/game"
	"github.com/hersh/duotris/internal/match"
)

type constant game.Shape

func (c constant) IntN(n int) int { return int(c) % n }

func newTestModel(t *testing.T) (Model, *match.Match) {
	t.Helper()
	cfg := config.Default()
	names := make([]string, len(cfg.Players))
	for i, p := range cfg.Players {
		names[i] = p.Name
	}
	m := match.New(names, match.WithRandomizer(func(int) game.Randomizer { return constant(game.ShapeO) }))
	return NewModel(m, cfg).WithSize(120, 40), m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, model Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := model.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func TestKeysRouteToTheirSeat(t *testing.T) {
	model, m := newTestModel(t)

	model, _ = update(t, model, runes("a"))
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyRight})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyDown})

	snaps := m.Snapshots()
	assert.Equal(t, 2, snaps[0].Active.X())
	assert.Equal(t, -2, snaps[0].Active.Y())
	assert.Equal(t, 4, snaps[1].Active.X())
	assert.Equal(t, -1, snaps[1].Active.Y())
	assert.Equal(t, ScreenPlaying, model.GetScreen())
}

func TestUnboundKeyIsIgnored(t *testing.T) {
	model, m := newTestModel(t)
	before := m.Snapshots()

	_, cmd := update(t, model, runes("x"))

	assert.Nil(t, cmd)
	assert.Equal(t, before, m.Snapshots())
}

func TestGameTickAdvancesAndReschedules(t *testing.T) {
	model, m := newTestModel(t)
	require.NotNil(t, model.Init())

	_, cmd := update(t, model, GameTickMsg{})

	assert.NotNil(t, cmd)
	for _, snap := range m.Snapshots() {
		assert.Equal(t, -1, snap.Active.Y())
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		model, _ := newTestModel(t)
		_, cmd := update(t, model, msg)
		require.NotNil(t, cmd, msg.String())
		assert.Equal(t, tea.QuitMsg{}, cmd(), msg.String())
	}
}

func TestMatchOverStopsTicking(t *testing.T) {
	model, m := newTestModel(t)

	var cmd tea.Cmd
	for i := 0; i < 1000 && model.GetScreen() == ScreenPlaying; i++ {
		model, cmd = update(t, model, GameTickMsg{})
	}

	require.Equal(t, ScreenGameOver, model.GetScreen())
	assert.True(t, m.Over())
	assert.Nil(t, cmd)
	assert.ElementsMatch(t, []string{"p1", "p2"}, model.Finished())

	view := model.View()
	assert.Contains(t, view, "GAME OVER")
	assert.Contains(t, view, "Leader: Tied")

	_, cmd = update(t, model, GameTickMsg{})
	assert.Nil(t, cmd)

	_, cmd = update(t, model, runes("a"))
	assert.Nil(t, cmd)

	_, cmd = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestEnterDoesNothingWhilePlaying(t *testing.T) {
	model, _ := newTestModel(t)
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, ScreenPlaying, model.GetScreen())
}

func TestPlayingViewShowsScoreLabel(t *testing.T) {
	model, _ := newTestModel(t)
	view := model.View()

	assert.Contains(t, view, "Player 1: 0 | Player 2: 0 | Leader: Tied")
	assert.Contains(t, view, "NEXT")
	assert.Contains(t, view, "rotate")
}

func TestRenderBoardDimensions(t *testing.T) {
	b := game.NewBoard(game.WithSeed(1))
	out := RenderBoard(b.Snapshot())

	// Border adds a line above and below the grid.
	assert.Len(t, strings.Split(out, "\n"), game.BoardHeight+2)
}

func TestRenderBoardShowsGhost(t *testing.T) {
	b := game.NewBoard(game.WithRandomizer(constant(game.ShapeO)))
	out := RenderBoard(b.Snapshot())
	assert.Equal(t, 2, strings.Count(out, "[][]"))
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(match.Result{
		Leader: "Player 2",
		Seats: []match.SeatResult{
			{Seat: 1, Name: "Player 1", Score: 100, Lines: 1},
			{Seat: 2, Name: "Player 2", Score: 300, Lines: 2},
		},
	})
	assert.Contains(t, out, "Player 2: 300 (2 lines)")
	assert.Contains(t, out, "Leader: Player 2")
}
