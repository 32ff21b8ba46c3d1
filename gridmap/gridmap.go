// Package gridmap implements the immutable boolean occupancy grid that every planner and
// simulation runs over.
package gridmap

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/navsim/spatialmath"
)

// Node is an integer grid cell.
type Node struct {
	X, Y int
}

// Point returns the cell center in continuous coordinates.
func (n Node) Point() r2.Point {
	return r2.Point{X: float64(n.X), Y: float64(n.Y)}
}

func (n Node) String() string {
	return fmt.Sprintf("(%d, %d)", n.X, n.Y)
}

// NodeAt returns the node nearest a continuous point.
func NodeAt(p r2.Point) Node {
	x, y := spatialmath.RoundToCell(p)
	return Node{x, y}
}

// Grid is the read-only occupancy query surface shared by GridMap and the costmap.
type Grid interface {
	Width() int
	Height() int
	InBounds(n Node) bool
	// IsOccupied reports true for out of bounds nodes.
	IsOccupied(n Node) bool
}

// GridMap is an immutable occupancy grid indexed as cells[y][x].
type GridMap struct {
	width, height int
	occupied      [][]bool
}

var _ Grid = (*GridMap)(nil)

// New copies the given rows into a GridMap. Rows must share one width.
func New(cells [][]bool) (*GridMap, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, errors.New("grid must have at least one row and one column")
	}
	width := len(cells[0])
	occupied := make([][]bool, len(cells))
	for y, row := range cells {
		if len(row) != width {
			return nil, errors.Errorf("row %d has width %d, expected %d", y, len(row), width)
		}
		occupied[y] = append([]bool(nil), row...)
	}
	return &GridMap{width: width, height: len(cells), occupied: occupied}, nil
}

// FromInts builds a grid from rows of 0 (free) and nonzero (occupied) values.
func FromInts(rows [][]int) (*GridMap, error) {
	return New(lo.Map(rows, func(row []int, _ int) []bool {
		return lo.Map(row, func(v int, _ int) bool { return v != 0 })
	}))
}

// FromRows parses rows written with '0'/'1' or '.'/'#'. Whitespace and commas are ignored.
func FromRows(rows []string) (*GridMap, error) {
	cells := make([][]bool, 0, len(rows))
	for y, raw := range rows {
		row := make([]bool, 0, len(raw))
		for _, r := range raw {
			switch r {
			case '0', '.':
				row = append(row, false)
			case '1', '#':
				row = append(row, true)
			case ' ', ',', '\t':
			default:
				return nil, errors.Errorf("row %d: unexpected cell %q", y, r)
			}
		}
		cells = append(cells, row)
	}
	return New(cells)
}

// Width is the number of columns.
func (g *GridMap) Width() int { return g.width }

// Height is the number of rows.
func (g *GridMap) Height() int { return g.height }

// InBounds reports whether n lies on the grid.
func (g *GridMap) InBounds(n Node) bool {
	return n.X >= 0 && n.X < g.width && n.Y >= 0 && n.Y < g.height
}

// IsFree reports whether n is in bounds and unoccupied.
func (g *GridMap) IsFree(n Node) bool {
	return g.InBounds(n) && !g.occupied[n.Y][n.X]
}

// IsOccupied is the complement of IsFree.
func (g *GridMap) IsOccupied(n Node) bool {
	return !g.IsFree(n)
}

var (
	orthogonal = [4]Node{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = [4]Node{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// Neighbors returns the free 4-connected neighbors of n in the order +x, -x, +y, -y.
func (g *GridMap) Neighbors(n Node) []Node {
	return Neighbors(g, n)
}

// Neighbors8 returns Neighbors followed by the free diagonal neighbors whose two adjacent
// orthogonal cells are also free.
func (g *GridMap) Neighbors8(n Node) []Node {
	return Neighbors8(g, n)
}

// Neighbors enumerates free 4-connected neighbors on any Grid.
func Neighbors(g Grid, n Node) []Node {
	out := make([]Node, 0, 4)
	for _, d := range orthogonal {
		next := Node{n.X + d.X, n.Y + d.Y}
		if !g.IsOccupied(next) {
			out = append(out, next)
		}
	}
	return out
}

// Neighbors8 enumerates free 8-connected neighbors on any Grid without corner cutting.
func Neighbors8(g Grid, n Node) []Node {
	out := Neighbors(g, n)
	for _, d := range diagonal {
		next := Node{n.X + d.X, n.Y + d.Y}
		if g.IsOccupied(next) || g.IsOccupied(Node{n.X + d.X, n.Y}) || g.IsOccupied(Node{n.X, n.Y + d.Y}) {
			continue
		}
		out = append(out, next)
	}
	return out
}

// Cells returns a copy of the occupancy rows.
func (g *GridMap) Cells() [][]bool {
	out := make([][]bool, g.height)
	for y := range g.occupied {
		out[y] = append([]bool(nil), g.occupied[y]...)
	}
	return out
}

// FreeCells lists every free node in row-major order.
func (g *GridMap) FreeCells() []Node {
	all := make([]Node, 0, g.width*g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			all = append(all, Node{x, y})
		}
	}
	return lo.Filter(all, func(n Node, _ int) bool { return g.IsFree(n) })
}

// OccupiedCount is the number of occupied cells.
func (g *GridMap) OccupiedCount() int {
	return g.width*g.height - len(g.FreeCells())
}

// String renders the grid top row first with '#' for occupied cells.
func (g *GridMap) String() string {
	var sb strings.Builder
	for y := g.height - 1; y >= 0; y-- {
		for x := 0; x < g.width; x++ {
			if g.occupied[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
