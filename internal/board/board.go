// Package board implements the pure Minesweeper field: construction, reveal
// flood-fill, flag toggling, and restart. It has no I/O and no concurrency
// of its own; callers (internal/gamecore) are responsible for serializing
// access.
package board

import (
	"fmt"
	"math/rand"
)

// CellState is the visibility state of a single cell.
type CellState int

const (
	Hidden CellState = iota
	Flagged
	Revealed
)

// Position is a zero-based grid coordinate, x < width, y < height.
type Position struct {
	X, Y uint16
}

// ProjectionKind identifies which shape a cell's public projection takes.
type ProjectionKind int

const (
	ProjectionHidden ProjectionKind = iota
	ProjectionFlagged
	ProjectionBomb
	ProjectionNumber
)

// Projection is the public (wire-safe) rendering of a single cell: never
// leaks a hidden bomb's location.
type Projection struct {
	Kind   ProjectionKind
	Number uint8 // valid only when Kind == ProjectionNumber
}

// Change describes one cell whose state changed as a result of an operation.
type Change struct {
	Pos        Position
	Projection Projection
}

type cell struct {
	isBomb   bool
	adjacent uint8
	state    CellState
}

// Board is a rectangular Minesweeper field.
type Board struct {
	Width, Height uint16
	BombCount     uint16
	Won, Lost     bool

	cells [][]cell // cells[y][x]
	rng   *rand.Rand
}

// New validates dimensions and the bomb ceiling, then lays out a fresh
// board using rng (never the package-level global generator, so callers
// can inject a deterministic source for tests).
func New(width, height, bombCount uint16, rng *rand.Rand) (*Board, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("board: width and height must be >= 1")
	}
	area := uint32(width) * uint32(height)
	if uint32(bombCount) > area-1 {
		return nil, fmt.Errorf("board: bomb_count must leave at least one safe cell")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	b := &Board{
		Width:     width,
		Height:    height,
		BombCount: bombCount,
		rng:       rng,
	}
	b.layout()
	return b, nil
}

// layout (re)allocates the grid, places bombs uniformly via a
// Fisher-Yates shuffle over position indices, and recomputes adjacency.
func (b *Board) layout() {
	b.cells = make([][]cell, b.Height)
	for y := range b.cells {
		b.cells[y] = make([]cell, b.Width)
	}
	b.Won = false
	b.Lost = false

	area := int(b.Width) * int(b.Height)
	indices := make([]int, area)
	for i := range indices {
		indices[i] = i
	}
	// Fisher-Yates shuffle.
	for i := area - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}
	for _, idx := range indices[:b.BombCount] {
		x := uint16(idx % int(b.Width))
		y := uint16(idx / int(b.Width))
		b.cells[y][x].isBomb = true
	}

	for y := uint16(0); y < b.Height; y++ {
		for x := uint16(0); x < b.Width; x++ {
			if b.cells[y][x].isBomb {
				continue
			}
			b.cells[y][x].adjacent = b.countBombNeighbors(Position{X: x, Y: y})
		}
	}
}

func (b *Board) countBombNeighbors(pos Position) uint8 {
	var n uint8
	for _, nb := range neighbors(pos, b.Width, b.Height) {
		if b.cells[nb.Y][nb.X].isBomb {
			n++
		}
	}
	return n
}

// neighbors returns the Moore neighborhood of pos, clipped to the grid.
func neighbors(pos Position, width, height uint16) []Position {
	out := make([]Position, 0, 8)
	x0, y0 := int(pos.X), int(pos.Y)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x0+dx, y0+dy
			if nx < 0 || ny < 0 || nx >= int(width) || ny >= int(height) {
				continue
			}
			out = append(out, Position{X: uint16(nx), Y: uint16(ny)})
		}
	}
	return out
}

func (b *Board) inBounds(pos Position) bool {
	return pos.X < b.Width && pos.Y < b.Height
}

func (b *Board) at(pos Position) *cell {
	return &b.cells[pos.Y][pos.X]
}

func (b *Board) project(pos Position) Projection {
	c := b.at(pos)
	switch c.state {
	case Hidden:
		return Projection{Kind: ProjectionHidden}
	case Flagged:
		return Projection{Kind: ProjectionFlagged}
	default: // Revealed
		if c.isBomb {
			return Projection{Kind: ProjectionBomb}
		}
		return Projection{Kind: ProjectionNumber, Number: c.adjacent}
	}
}

// Reveal performs a flood-fill reveal starting at pos. No-op (empty
// changeset) if the game is over or the cell is already revealed/flagged.
func (b *Board) Reveal(pos Position) []Change {
	if b.Won || b.Lost || !b.inBounds(pos) {
		return nil
	}
	start := b.at(pos)
	if start.state != Hidden {
		return nil
	}

	start.state = Revealed
	changes := []Change{{Pos: pos, Projection: b.project(pos)}}

	if start.isBomb {
		b.Lost = true
		return changes
	}

	visited := map[Position]bool{pos: true}
	var queue []Position
	if start.adjacent == 0 {
		queue = append(queue, neighbors(pos, b.Width, b.Height)...)
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if visited[p] {
			continue
		}
		visited[p] = true

		c := b.at(p)
		if c.state != Hidden {
			// Flagged cells block propagation; already-revealed cells are
			// simply skipped.
			continue
		}
		c.state = Revealed
		changes = append(changes, Change{Pos: p, Projection: b.project(p)})

		if c.adjacent == 0 {
			queue = append(queue, neighbors(p, b.Width, b.Height)...)
		}
	}

	b.checkWin()
	return changes
}

// Flag toggles a cell between Hidden and Flagged. No-op if the game is
// over or the cell is Revealed.
func (b *Board) Flag(pos Position) (Change, bool) {
	if b.Won || b.Lost || !b.inBounds(pos) {
		return Change{}, false
	}
	c := b.at(pos)
	switch c.state {
	case Hidden:
		c.state = Flagged
	case Flagged:
		c.state = Hidden
	default: // Revealed
		return Change{}, false
	}
	return Change{Pos: pos, Projection: b.project(pos)}, true
}

// Restart reinitializes the board in place with the same dimensions and
// bomb count: fresh layout, all Hidden, Won/Lost cleared.
func (b *Board) Restart() {
	b.layout()
}

func (b *Board) checkWin() {
	for y := uint16(0); y < b.Height; y++ {
		for x := uint16(0); x < b.Width; x++ {
			c := b.cells[y][x]
			if c.isBomb && c.state == Revealed {
				return // lost should already be set; never won with a revealed bomb
			}
			if !c.isBomb && c.state != Revealed {
				return
			}
		}
	}
	b.Won = true
}

// Snapshot returns the public projection of every cell, field[y][x].
func (b *Board) Snapshot() [][]Projection {
	out := make([][]Projection, b.Height)
	for y := uint16(0); y < b.Height; y++ {
		row := make([]Projection, b.Width)
		for x := uint16(0); x < b.Width; x++ {
			row[x] = b.project(Position{X: x, Y: y})
		}
		out[y] = row
	}
	return out
}
