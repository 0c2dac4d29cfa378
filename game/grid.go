package game

// Direction is one of the four orthogonal moves. The zero value is invalid.
type Direction uint8

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the valid directions in a stable order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Valid reports whether d is one of the four moves.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Delta returns the (dx, dy) offset for one step in d.
// Up decreases Y, Down increases Y.
func (d Direction) Delta() (dx, dy int32) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection maps a lowercase name back to a Direction.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range Directions {
		if d.String() == s {
			return d, true
		}
	}
	return None, false
}

// Grid is the fixed-size board. When Wrap is set, stepping off one edge
// re-enters from the opposite edge.
type Grid struct {
	Width  int32
	Height int32
	Wrap   bool
}

// Cells is the number of cells on the board.
func (g Grid) Cells() int {
	return int(g.Width) * int(g.Height)
}

// Contains reports whether p lies on the board.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Index flattens p into [0, Cells()) for in-bounds points.
func (g Grid) Index(p Point) int {
	return int(p.Y)*int(g.Width) + int(p.X)
}

// At is the inverse of Index.
func (g Grid) At(i int) Point {
	return Point{X: int32(i % int(g.Width)), Y: int32(i / int(g.Width))}
}

// Step moves p one cell in d, wrapping when the grid wraps.
// On a walled grid the result may be off the board.
func (g Grid) Step(p Point, d Direction) Point {
	dx, dy := d.Delta()
	next := p.Add(dx, dy)
	if g.Wrap {
		next.X = mod(next.X, g.Width)
		next.Y = mod(next.Y, g.Height)
	}
	return next
}

// Center returns the middle cell, rounding down.
func (g Grid) Center() Point {
	return Point{X: g.Width / 2, Y: g.Height / 2}
}

func mod(v, n int32) int32 {
	if n <= 0 {
		return v
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
