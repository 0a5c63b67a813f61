package world

import "fmt"

// Grid holds the park's tile matrix. Dimensions are fixed at construction;
// the entrance and exit cells anchor road planning and tours.
type Grid struct {
	Width    int
	Height   int
	Entrance Cell
	Exit     Cell

	tiles []Tile // row-major, Width*Height
}

// NewGrid creates a grid filled with the given base kind. Entrance defaults
// to the middle of the left edge and exit to the middle of the right edge.
func NewGrid(width, height int, base *TileKind) *Grid {
	g := &Grid{
		Width:    width,
		Height:   height,
		Entrance: Cell{X: 0, Y: height / 2},
		Exit:     Cell{X: width - 1, Y: height / 2},
		tiles:    make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.tiles[y*width+x] = Tile{Kind: base, Cell: Cell{X: x, Y: y}}
		}
	}
	return g
}

// InBounds reports whether the cell lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// TileAt returns the tile occupying the cell.
func (g *Grid) TileAt(c Cell) (Tile, bool) {
	if !g.InBounds(c) {
		return Tile{}, false
	}
	return g.tiles[c.Y*g.Width+c.X], true
}

// SetTile swaps in a new tile of the given kind at the cell. Out-of-bounds
// cells are ignored.
func (g *Grid) SetTile(c Cell, kind *TileKind) {
	if !g.InBounds(c) || kind == nil {
		return
	}
	g.tiles[c.Y*g.Width+c.X] = Tile{Kind: kind, Cell: c}
}

// TilesWithin returns every tile whose cell falls inside the square window
// of the given radius centered on the cell (Chebyshev box, not a circle).
func (g *Grid) TilesWithin(center Cell, radius int) []Tile {
	if radius < 0 {
		return nil
	}
	tiles := make([]Tile, 0, (2*radius+1)*(2*radius+1))
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			if t, ok := g.TileAt(Cell{X: x, Y: y}); ok {
				tiles = append(tiles, t)
			}
		}
	}
	return tiles
}

// PlanRoads enumerates every simple road path from the entrance to the exit
// using depth-first search over road-kind tiles with 4-directional
// adjacency. The visited set is scoped to the current branch, so distinct
// simple paths through shared cells are all found. Returns nil when the
// entrance and exit are not connected.
func (g *Grid) PlanRoads() [][]Cell {
	entry, ok := g.TileAt(g.Entrance)
	if !ok || entry.Kind == nil || !entry.Kind.Road {
		return nil
	}

	var paths [][]Cell
	visited := make(map[Cell]bool)
	var walk func(c Cell, trail []Cell)
	walk = func(c Cell, trail []Cell) {
		visited[c] = true
		trail = append(trail, c)
		if c == g.Exit {
			path := make([]Cell, len(trail))
			copy(path, trail)
			paths = append(paths, path)
		} else {
			for _, n := range c.Neighbors4() {
				if visited[n] {
					continue
				}
				t, ok := g.TileAt(n)
				if !ok || t.Kind == nil || !t.Kind.Road {
					continue
				}
				walk(n, trail)
			}
		}
		delete(visited, c) // branch-scoped, not global
	}
	walk(g.Entrance, nil)
	return paths
}

// NightCells returns the draw set for night rendering: every cell whose tile
// is flagged always-visible plus its 8-neighborhood, deduplicated by cell
// key. Chipped animals are appended by the caller; the grid only knows
// terrain.
func (g *Grid) NightCells() []Cell {
	seen := make(map[Cell]bool)
	var cells []Cell
	for _, t := range g.tiles {
		if t.Kind == nil || !t.Kind.NightVisible {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				c := Cell{X: t.Cell.X + dx, Y: t.Cell.Y + dy}
				if !g.InBounds(c) || seen[c] {
					continue
				}
				seen[c] = true
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// CountKind returns how many tiles currently have the given kind id.
func (g *Grid) CountKind(id string) int {
	n := 0
	for _, t := range g.tiles {
		if t.Kind != nil && t.Kind.ID == id {
			n++
		}
	}
	return n
}

// Tiles returns the full tile list in row-major order. The slice is the
// grid's own backing store; callers must not mutate it.
func (g *Grid) Tiles() []Tile {
	return g.tiles
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, entrance=%v, exit=%v)", g.Width, g.Height, g.Entrance, g.Exit)
}
