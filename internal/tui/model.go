package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hersh/duotris/internal/config"
	"github.com/hersh/duotris/internal/match"
)

// --- Custom tea.Msg types ---

type GameTickMsg time.Time

// --- Screens ---

type Screen int

const (
	ScreenPlaying Screen = iota
	ScreenGameOver
)

// --- Model ---

type Model struct {
	screen Screen
	match  *match.Match
	tick   time.Duration
	width  int
	height int

	players []PlayerKeyMap
	keys    GlobalKeyMap
	help    help.Model

	// Seat ids in the order their boards ended.
	finished []string
}

// NewModel creates the TUI for a running match. Seat i is controlled by the
// bindings of cfg.Players[i].
func NewModel(m *match.Match, cfg config.Config) Model {
	players := make([]PlayerKeyMap, len(cfg.Players))
	for i, p := range cfg.Players {
		players[i] = NewPlayerKeyMap(p.Name, p.Keys)
	}
	h := help.New()
	h.ShowAll = true

	return Model{
		screen:  ScreenPlaying,
		match:   m,
		tick:    cfg.TickInterval,
		players: players,
		keys:    DefaultGlobalKeyMap(),
		help:    h,
	}
}

// WithSize sets the initial terminal size before the first WindowSizeMsg.
func (m Model) WithSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

func (m Model) Init() tea.Cmd {
	return gameTickCmd(m.tick)
}

func gameTickCmd(speed time.Duration) tea.Cmd {
	return tea.Tick(speed, func(t time.Time) tea.Msg {
		return GameTickMsg(t)
	})
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case GameTickMsg:
		return m.handleGameTick()
	}
	return m, nil
}

// --- Key handlers ---

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenPlaying:
		return m.handlePlayingKeys(msg)
	case ScreenGameOver:
		if key.Matches(msg, m.keys.Confirm) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handlePlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for seat, km := range m.players {
		if cmd, ok := km.Command(msg); ok {
			m.match.Apply(seat, cmd)
			break
		}
	}
	m.checkGameOver()
	return m, nil
}

// --- Tick handlers ---

func (m Model) handleGameTick() (tea.Model, tea.Cmd) {
	if m.screen != ScreenPlaying {
		return m, nil
	}

	m.match.Tick()
	m.checkGameOver()

	if m.screen != ScreenPlaying {
		return m, nil
	}
	return m, gameTickCmd(m.tick)
}

// checkGameOver collects finished seats and switches to the summary once the
// whole match is over.
func (m *Model) checkGameOver() {
drain:
	for {
		select {
		case id := <-m.match.GetGameOverChan():
			m.finished = append(m.finished, id)
		default:
			break drain
		}
	}
	if m.match.Over() {
		m.screen = ScreenGameOver
	}
}

func (m Model) GetScreen() Screen {
	return m.screen
}

// Finished returns the ids of the seats whose boards have ended, in order.
func (m Model) Finished() []string {
	out := make([]string, len(m.finished))
	copy(out, m.finished)
	return out
}

// --- View ---

func (m Model) View() string {
	switch m.screen {
	case ScreenPlaying:
		return m.renderPlaying()
	case ScreenGameOver:
		return m.renderGameOver()
	}
	return ""
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (m Model) renderPlaying() string {
	seats := m.match.Seats()
	panels := make([]string, 0, len(seats))
	for i, snap := range m.match.Snapshots() {
		panels = append(panels, RenderSeat(seats[i].Name, snap))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		RenderScoreLabel(m.match.Scoreboard().Label()),
		lipgloss.JoinHorizontal(lipgloss.Top, panels...),
		m.help.View(helpKeyMap{players: m.players, global: m.keys}),
	)
	return m.renderCentered(content)
}

func (m Model) renderGameOver() string {
	result, ok := m.match.Result()
	if !ok {
		return m.renderCentered("Game Over")
	}
	content := RenderSummary(result) + "\n\n" + infoStyle.Render("Press ENTER to exit")
	return m.renderCentered(content)
}
