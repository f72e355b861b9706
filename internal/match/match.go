// Package match composes independent boards into one multi-player game:
// it routes commands to seats, forwards score events to a shared scoreboard
// and records the result once every board is over.
package match

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hersh/duotris/internal/game"
	"github.com/hersh/duotris/internal/player"
)

type Phase int

const (
	PhasePlaying Phase = iota
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Command is one discrete player input.
type Command int

const (
	CommandLeft Command = iota
	CommandRight
	CommandDown
	CommandRotate
)

func (c Command) String() string {
	switch c {
	case CommandLeft:
		return "left"
	case CommandRight:
		return "right"
	case CommandDown:
		return "down"
	case CommandRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// Seat is one player position in the match.
type Seat struct {
	ID   string
	Name string
}

// SeatResult is the final standing of one seat.
type SeatResult struct {
	Seat     int
	PlayerID string
	Name     string
	Score    int
	Lines    int
}

// Result summarizes a finished match.
type Result struct {
	MatchID string
	Leader  string
	Seats   []SeatResult
	EndedAt time.Time
}

// ResultSaver persists finished matches.
type ResultSaver interface {
	SaveMatchResult(Result) error
}

type Option func(*Match)

// WithSeed makes every seat's piece sequence reproducible. Seats get
// distinct streams derived from the same seed.
func WithSeed(seed int64) Option {
	return func(m *Match) { m.seed = seed }
}

// WithRandomizer overrides the piece source for each seat.
func WithRandomizer(fn func(seat int) game.Randomizer) Option {
	return func(m *Match) { m.newRand = fn }
}

func WithResultSaver(s ResultSaver) Option {
	return func(m *Match) { m.saver = s }
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Match) { m.logger = logger }
}

type Match struct {
	mu           sync.RWMutex
	id           string
	phase        Phase
	seats        []Seat
	boards       []*game.Board
	scoreboard   *player.Scoreboard
	saver        ResultSaver
	logger       *log.Logger
	seed         int64
	newRand      func(seat int) game.Randomizer
	gameOverChan chan string
	result       *Result
}

// New starts a match with one board per name.
func New(names []string, opts ...Option) *Match {
	m := &Match{
		id:           uuid.NewString(),
		phase:        PhasePlaying,
		scoreboard:   player.NewScoreboard(),
		gameOverChan: make(chan string, len(names)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.seed == 0 {
		m.seed = time.Now().UnixNano()
	}
	if m.newRand == nil {
		seed := uint64(m.seed)
		m.newRand = func(seat int) game.Randomizer {
			return rand.New(rand.NewPCG(seed, uint64(seat)))
		}
	}

	for i, name := range names {
		seat := Seat{ID: fmt.Sprintf("p%d", i+1), Name: name}
		m.seats = append(m.seats, seat)
		m.scoreboard.AddPlayer(seat.ID, seat.Name)
		m.boards = append(m.boards, game.NewBoard(
			game.WithPlayer(seat.ID),
			game.WithRandomizer(m.newRand(i)),
			game.WithLogger(m.logger),
			game.WithScoreListener(m.handleScore),
			game.WithGameOverListener(m.handleGameOver),
		))
	}

	m.logger.Info("match started", "match", m.id, "players", len(names), "seed", m.seed)
	return m
}

func (m *Match) ID() string {
	return m.id
}

func (m *Match) Seats() []Seat {
	seats := make([]Seat, len(m.seats))
	copy(seats, m.seats)
	return seats
}

func (m *Match) Scoreboard() *player.Scoreboard {
	return m.scoreboard
}

func (m *Match) GetPhase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

func (m *Match) Over() bool {
	return m.GetPhase() == PhaseOver
}

// Tick advances gravity on every board that is still playing.
func (m *Match) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhasePlaying {
		return
	}
	for _, b := range m.boards {
		if !b.GameOver() {
			b.Tick()
		}
	}
	m.checkFinished()
}

// Apply routes a command to a seat's board. It reports whether the command
// reached a live board.
func (m *Match) Apply(seat int, cmd Command) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seat < 0 || seat >= len(m.boards) {
		return false
	}
	b := m.boards[seat]
	if b.GameOver() {
		return false
	}

	switch cmd {
	case CommandLeft:
		b.MoveLeft()
	case CommandRight:
		b.MoveRight()
	case CommandDown:
		b.MoveDown()
	case CommandRotate:
		b.Rotate()
	default:
		return false
	}
	m.checkFinished()
	return true
}

// Snapshots returns the state of every board in seat order.
func (m *Match) Snapshots() []game.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]game.Snapshot, len(m.boards))
	for i, b := range m.boards {
		snaps[i] = b.Snapshot()
	}
	return snaps
}

// GetGameOverChan delivers the id of each seat whose board ends.
func (m *Match) GetGameOverChan() <-chan string {
	return m.gameOverChan
}

// Result returns the final standings once the match is over.
func (m *Match) Result() (Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// handleScore runs synchronously inside a board call.
func (m *Match) handleScore(e game.ScoreEvent) {
	m.scoreboard.UpdateScore(e.Player, e.Score)
	m.logger.Debug("score changed", "match", m.id, "player", e.Player, "score", e.Score, "label", m.scoreboard.Label())
}

// handleGameOver runs synchronously inside a board call, with m.mu held.
func (m *Match) handleGameOver(e game.GameOverEvent) {
	m.scoreboard.SetPlayerAlive(e.Player, false)
	select {
	case m.gameOverChan <- e.Player:
	default:
	}
}

// checkFinished ends the match once no board is alive. Callers hold m.mu.
func (m *Match) checkFinished() {
	if m.phase != PhasePlaying || m.scoreboard.CountAlive() > 0 {
		return
	}
	m.phase = PhaseOver

	result := Result{
		MatchID: m.id,
		Leader:  m.scoreboard.Leader(),
		EndedAt: time.Now(),
	}
	for i, b := range m.boards {
		result.Seats = append(result.Seats, SeatResult{
			Seat:     i + 1,
			PlayerID: m.seats[i].ID,
			Name:     m.seats[i].Name,
			Score:    b.Score(),
			Lines:    b.Lines(),
		})
	}
	m.result = &result
	m.logger.Info("match over", "match", m.id, "leader", result.Leader)

	if m.saver != nil {
		if err := m.saver.SaveMatchResult(result); err != nil {
			m.logger.Error("could not save match result", "match", m.id, "error", err)
		}
	}
}
