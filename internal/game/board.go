package game

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
)

const (
	BoardWidth  = 10
	BoardHeight = 20
)

// lineScores maps rows cleared by a single settle to the points awarded.
var lineScores = [5]int{0, 100, 300, 500, 800}

// Randomizer picks shape indexes for newly spawned pieces.
// *rand.Rand from math/rand/v2 satisfies it.
type Randomizer interface {
	IntN(n int) int
}

// ScoreEvent is delivered synchronously whenever a settle raises the score.
type ScoreEvent struct {
	Player  string
	Score   int
	Cleared int
}

// GameOverEvent is delivered once, when a piece settles above the grid.
type GameOverEvent struct {
	Player string
	Score  int
	Lines  int
}

// Board is the game engine for one player: the settled grid, the falling
// piece, the preview piece and every rule that moves them. It holds no timer;
// the caller drives gravity through Tick.
type Board struct {
	grid     [][]bool
	active   *Piece
	next     *Piece
	score    int
	lines    int
	gameOver bool

	player     string
	rng        Randomizer
	onScore    func(ScoreEvent)
	onGameOver func(GameOverEvent)
	logger     *log.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithRandomizer sets the source used to choose spawned shapes.
func WithRandomizer(r Randomizer) Option {
	return func(b *Board) { b.rng = r }
}

// WithSeed makes the piece sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(b *Board) { b.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithPlayer sets the identifier carried by score and game-over events.
func WithPlayer(id string) Option {
	return func(b *Board) { b.player = id }
}

// WithScoreListener registers the callback fired after a scoring settle.
func WithScoreListener(fn func(ScoreEvent)) Option {
	return func(b *Board) { b.onScore = fn }
}

// WithGameOverListener registers the callback fired when the game ends.
func WithGameOverListener(fn func(GameOverEvent)) Option {
	return func(b *Board) { b.onGameOver = fn }
}

// WithLogger routes engine tracing to logger.
func WithLogger(logger *log.Logger) Option {
	return func(b *Board) { b.logger = logger }
}

// NewBoard creates an empty board and spawns the first two pieces.
func NewBoard(opts ...Option) *Board {
	grid := make([][]bool, BoardHeight)
	for i := range grid {
		grid[i] = make([]bool, BoardWidth)
	}
	b := &Board{grid: grid}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		now := uint64(time.Now().UnixNano())
		b.rng = rand.New(rand.NewPCG(now, now>>1))
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	b.spawnInitial()
	return b
}

func (b *Board) spawnInitial() {
	b.active = b.randomPiece()
	b.next = b.randomPiece()
}

func (b *Board) randomPiece() *Piece {
	return NewPiece(Shape(b.rng.IntN(ShapeCount)))
}

// Tick advances gravity by one row, settling the piece if it is blocked.
func (b *Board) Tick() {
	if b.gameOver {
		return
	}
	if !b.collides(1, 0) {
		b.active.Translate(0, 1)
		return
	}
	b.settle()
}

// MoveDown is the soft-drop command; it has exactly the effect of one Tick.
func (b *Board) MoveDown() {
	b.Tick()
}

func (b *Board) MoveLeft() {
	b.shift(-1)
}

func (b *Board) MoveRight() {
	b.shift(1)
}

func (b *Board) shift(dx int) {
	if b.gameOver || b.collides(0, dx) {
		return
	}
	b.active.Translate(dx, 0)
}

// Rotate turns the active piece clockwise. An invalid result is undone by
// three further clockwise turns.
func (b *Board) Rotate() {
	if b.gameOver {
		return
	}
	b.active.RotateClockwise()
	if !b.valid() {
		for i := 0; i < 3; i++ {
			b.active.RotateClockwise()
		}
	}
}

// collides reports whether the active piece shifted by di rows and dj
// columns would leave the grid sideways or through the bottom, or overlap a
// settled cell. Rows above the grid never collide.
func (b *Board) collides(di, dj int) bool {
	p := b.active
	for i, row := range p.cells {
		for j, filled := range row {
			if !filled {
				continue
			}
			r := p.y + i + di
			c := p.x + j + dj
			if r >= BoardHeight || c < 0 || c >= BoardWidth {
				return true
			}
			if r >= 0 && b.grid[r][c] {
				return true
			}
		}
	}
	return false
}

// valid reports whether the active piece fits where it currently is. The top
// of the grid is not a bound.
func (b *Board) valid() bool {
	p := b.active
	for i, row := range p.cells {
		for j, filled := range row {
			if !filled {
				continue
			}
			r, c := p.y+i, p.x+j
			if c < 0 || c >= BoardWidth || r >= BoardHeight {
				return false
			}
			if r >= 0 && b.grid[r][c] {
				return false
			}
		}
	}
	return true
}

func (b *Board) settle() {
	p := b.active
	for i, row := range p.cells {
		for _, filled := range row {
			if filled && p.y+i < 0 {
				b.endGame()
				return
			}
		}
	}

	for i, row := range p.cells {
		for j, filled := range row {
			if filled {
				b.grid[p.y+i][p.x+j] = true
			}
		}
	}
	b.logger.Debug("piece settled", "player", b.player, "shape", p.shape, "x", p.x, "y", p.y)

	b.clearLines()

	b.active = b.next
	b.next = b.randomPiece()
}

// clearLines removes every complete row, shifting the rows above it down,
// and awards points for the rows removed by this settle.
func (b *Board) clearLines() {
	cleared := 0
	for i := 0; i < BoardHeight; {
		if !b.rowFull(i) {
			i++
			continue
		}
		cleared++
		for k := i; k > 0; k-- {
			copy(b.grid[k], b.grid[k-1])
		}
		clear(b.grid[0])
	}

	if cleared == 0 {
		return
	}
	b.lines += cleared
	b.score += lineScores[cleared]
	b.logger.Debug("lines cleared", "player", b.player, "count", cleared, "score", b.score)

	if b.onScore != nil {
		b.onScore(ScoreEvent{Player: b.player, Score: b.score, Cleared: cleared})
	}
}

func (b *Board) rowFull(r int) bool {
	for _, filled := range b.grid[r] {
		if !filled {
			return false
		}
	}
	return true
}

func (b *Board) endGame() {
	if b.gameOver {
		return
	}
	b.gameOver = true
	b.logger.Info("game over", "player", b.player, "score", b.score, "lines", b.lines)
	if b.onGameOver != nil {
		b.onGameOver(GameOverEvent{Player: b.player, Score: b.score, Lines: b.lines})
	}
}

// DropRow returns the row the active piece would settle at if it fell
// straight down from where it is.
func (b *Board) DropRow() int {
	d := 0
	for !b.collides(d+1, 0) {
		d++
	}
	return b.active.y + d
}

func (b *Board) Score() int { return b.score }
func (b *Board) Lines() int { return b.lines }
func (b *Board) GameOver() bool { return b.gameOver }
func (b *Board) Player() string { return b.player }
func (b *Board) Active() *Piece { return b.active.Clone() }
func (b *Board) Next() *Piece { return b.next.Clone() }

// Snapshot is a read-only copy of the board for rendering.
type Snapshot struct {
	Player   string
	Grid     [][]bool
	Active   *Piece
	Next     *Piece
	DropRow  int
	Score    int
	Lines    int
	GameOver bool
}

// Snapshot copies the current state; mutating the result does not affect the
// board.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Player:   b.player,
		Grid:     copyCells(b.grid),
		Active:   b.active.Clone(),
		Next:     b.next.Clone(),
		DropRow:  b.DropRow(),
		Score:    b.score,
		Lines:    b.lines,
		GameOver: b.gameOver,
	}
}
