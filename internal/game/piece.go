package game

// Shape identifies one of the seven tetromino layouts. Its numeric value is
// also the piece's color id.
type Shape int

const (
	ShapeI Shape = iota
	ShapeT
	ShapeO
	ShapeS
	ShapeZ
	ShapeJ
	ShapeL
)

// ShapeCount is the number of canonical shapes a piece can be spawned with.
const ShapeCount = 7

// spawnX is the column every piece spawns at; it centers the widest shape.
const spawnX = (BoardWidth - 4) / 2

var shapeNames = [ShapeCount]string{"I", "T", "O", "S", "Z", "J", "L"}

var pieceShapes = [ShapeCount][][]bool{
	ShapeI: {
		{true, true, true, true},
	},
	ShapeT: {
		{true, true, true},
		{false, true, false},
	},
	ShapeO: {
		{true, true},
		{true, true},
	},
	ShapeS: {
		{true, true, false},
		{false, true, true},
	},
	ShapeZ: {
		{false, true, true},
		{true, true, false},
	},
	ShapeJ: {
		{true, true, true},
		{false, false, true},
	},
	ShapeL: {
		{true, true, true},
		{true, false, false},
	},
}

func (s Shape) String() string {
	if s < 0 || int(s) >= ShapeCount {
		return "?"
	}
	return shapeNames[s]
}

// Piece is one falling block formation. It knows nothing about the board;
// collision checks live in Board.
type Piece struct {
	shape Shape
	cells [][]bool
	x, y  int
}

// NewPiece creates a piece of the given shape positioned fully above the
// visible grid.
func NewPiece(s Shape) *Piece {
	cells := copyCells(pieceShapes[s])
	return &Piece{
		shape: s,
		cells: cells,
		x:     spawnX,
		y:     -len(cells),
	}
}

// RotateClockwise swaps in the shape turned 90 degrees clockwise. A rows×cols
// grid becomes cols×rows; cell (i,j) moves to (j, rows-1-i).
func (p *Piece) RotateClockwise() {
	rows := len(p.cells)
	cols := len(p.cells[0])
	rotated := make([][]bool, cols)
	for j := range rotated {
		rotated[j] = make([]bool, rows)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rotated[j][rows-1-i] = p.cells[i][j]
		}
	}
	p.cells = rotated
}

// Translate shifts the piece origin without any validation.
func (p *Piece) Translate(dx, dy int) {
	p.x += dx
	p.y += dy
}

// Cells returns a copy of the occupancy grid.
func (p *Piece) Cells() [][]bool { return copyCells(p.cells) }

func (p *Piece) X() int { return p.x }
func (p *Piece) Y() int { return p.y }
func (p *Piece) Shape() Shape { return p.shape }
func (p *Piece) Color() int { return int(p.shape) }

// Width and Height report the current cell grid dimensions.
func (p *Piece) Width() int { return len(p.cells[0]) }
func (p *Piece) Height() int { return len(p.cells) }

// Clone returns an independent copy of the piece.
func (p *Piece) Clone() *Piece {
	return &Piece{
		shape: p.shape,
		cells: copyCells(p.cells),
		x:     p.x,
		y:     p.y,
	}
}

func copyCells(src [][]bool) [][]bool {
	dst := make([][]bool, len(src))
	for i := range src {
		dst[i] = make([]bool, len(src[i]))
		copy(dst[i], src[i])
	}
	return dst
}
