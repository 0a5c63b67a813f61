// Package world provides the tile grid, terrain kinds, and spatial data
// structures for the park. Positions use continuous grid-fraction
// coordinates; cells are the integer truncation of a position.
package world

import (
	"fmt"
	"math"
)

// Position is a continuous location on the grid. A position of (2.5, 3.5)
// is the middle of cell (2, 3).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell is an integer grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell returns the grid cell containing the position.
func (p Position) Cell() Cell {
	return Cell{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// Center returns the position at the middle of the cell.
func (c Cell) Center() Position {
	return Position{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5}
}

// Chebyshev returns the Chebyshev (chessboard) distance between two cells.
// Perception windows are square, so this is the distance metric for
// visibility checks.
func Chebyshev(a, b Cell) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		return dy
	}
	return dx
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CardinalDirections defines the four neighbor offsets used by road
// planning. Diagonal moves are excluded by construction.
var CardinalDirections = [4]Cell{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// Neighbors4 returns the four cardinally adjacent cells.
func (c Cell) Neighbors4() [4]Cell {
	var result [4]Cell
	for i, d := range CardinalDirections {
		result[i] = Cell{X: c.X + d.X, Y: c.Y + d.Y}
	}
	return result
}

// TileKind holds the static attributes of a terrain kind, loaded once from
// definition data and shared by every tile of that kind.
type TileKind struct {
	ID           string  `yaml:"-"`
	Price        int     `yaml:"price"`
	Obstacle     bool    `yaml:"obstacle"`
	Edible       bool    `yaml:"edible"`
	Water        bool    `yaml:"water"`
	Elevated     bool    `yaml:"elevated"`
	Road         bool    `yaml:"road"`
	NightVisible bool    `yaml:"nightVisible"`
	Fallback     string  `yaml:"fallback"` // kind substituted after consumption
	Texture      string  `yaml:"texture"`
	Layer        int     `yaml:"layer"`
	Size         float64 `yaml:"size"`
}

// Tile is one grid cell's terrain. Replacing a tile is a whole-value swap of
// the kind pointer; tiles themselves are never mutated in place.
type Tile struct {
	Kind *TileKind `json:"-"`
	Cell Cell      `json:"cell"`
}
