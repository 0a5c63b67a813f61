package world

import "testing"

var (
	testGrass = &TileKind{ID: "grass", Edible: true, Fallback: "dirt"}
	testDirt  = &TileKind{ID: "dirt"}
	testRoad  = &TileKind{ID: "road", Road: true}
	testRock  = &TileKind{ID: "rock", Obstacle: true, NightVisible: true}
)

func TestPlanRoadsNoConnection(t *testing.T) {
	g := NewGrid(5, 3, testGrass)
	if paths := g.PlanRoads(); paths != nil {
		t.Fatalf("expected no paths on a roadless grid, got %d", len(paths))
	}

	// A road that stops short of the exit still connects nothing.
	y := g.Entrance.Y
	for x := 0; x < 3; x++ {
		g.SetTile(Cell{X: x, Y: y}, testRoad)
	}
	if paths := g.PlanRoads(); paths != nil {
		t.Fatalf("expected no paths with a partial road, got %d", len(paths))
	}
}

func TestPlanRoadsConnected(t *testing.T) {
	g := NewGrid(5, 3, testGrass)
	y := g.Entrance.Y
	for x := 0; x < 5; x++ {
		g.SetTile(Cell{X: x, Y: y}, testRoad)
	}

	paths := g.PlanRoads()
	if len(paths) != 1 {
		t.Fatalf("expected exactly one path, got %d", len(paths))
	}
	p := paths[0]
	if p[0] != g.Entrance || p[len(p)-1] != g.Exit {
		t.Errorf("path endpoints = %v..%v, want %v..%v", p[0], p[len(p)-1], g.Entrance, g.Exit)
	}
	if len(p) != 5 {
		t.Errorf("path length = %d, want 5", len(p))
	}
}

func TestPlanRoadsBranching(t *testing.T) {
	// Two parallel road rows joined at both ends yield two simple paths.
	g := NewGrid(4, 3, testGrass)
	g.Entrance = Cell{X: 0, Y: 0}
	g.Exit = Cell{X: 3, Y: 0}
	for x := 0; x < 4; x++ {
		g.SetTile(Cell{X: x, Y: 0}, testRoad)
		g.SetTile(Cell{X: x, Y: 1}, testRoad)
	}

	paths := g.PlanRoads()
	if len(paths) < 2 {
		t.Fatalf("expected at least two simple paths, got %d", len(paths))
	}
	for _, p := range paths {
		seen := make(map[Cell]bool)
		for _, c := range p {
			if seen[c] {
				t.Errorf("path revisits %v, not a simple path", c)
			}
			seen[c] = true
		}
	}
}

func TestTilesWithinBox(t *testing.T) {
	g := NewGrid(10, 10, testGrass)
	tiles := g.TilesWithin(Cell{X: 5, Y: 5}, 2)
	if len(tiles) != 25 {
		t.Fatalf("radius-2 box should hold 25 tiles, got %d", len(tiles))
	}
	for _, tile := range tiles {
		if d := Chebyshev(tile.Cell, Cell{X: 5, Y: 5}); d > 2 {
			t.Errorf("tile %v outside box, distance %d", tile.Cell, d)
		}
	}

	// A corner-centered box is truncated by the grid edge.
	corner := g.TilesWithin(Cell{X: 0, Y: 0}, 2)
	if len(corner) != 9 {
		t.Errorf("corner box should hold 9 tiles, got %d", len(corner))
	}
}

func TestSetTileIsWholeValueSwap(t *testing.T) {
	g := NewGrid(3, 3, testGrass)
	c := Cell{X: 1, Y: 1}
	before, _ := g.TileAt(c)
	g.SetTile(c, testDirt)
	after, _ := g.TileAt(c)

	if before.Kind != testGrass || after.Kind != testDirt {
		t.Fatalf("swap failed: before=%v after=%v", before.Kind.ID, after.Kind.ID)
	}
	// Out-of-bounds set is ignored.
	g.SetTile(Cell{X: -1, Y: 0}, testDirt)
}

func TestNightCellsDeduplicated(t *testing.T) {
	g := NewGrid(6, 6, testGrass)
	// Two adjacent night-visible tiles share most of their neighborhoods.
	g.SetTile(Cell{X: 2, Y: 2}, testRock)
	g.SetTile(Cell{X: 3, Y: 2}, testRock)

	cells := g.NightCells()
	seen := make(map[Cell]bool)
	for _, c := range cells {
		if seen[c] {
			t.Errorf("duplicate cell %v in night draw set", c)
		}
		seen[c] = true
	}
	// 3x3 around (2,2) union 3x3 around (3,2) = 12 cells.
	if len(cells) != 12 {
		t.Errorf("night draw set size = %d, want 12", len(cells))
	}
	if !seen[Cell{X: 1, Y: 1}] || !seen[Cell{X: 4, Y: 3}] {
		t.Error("night draw set missing expected neighborhood cells")
	}
}

func TestChebyshev(t *testing.T) {
	tests := []struct {
		a, b Cell
		want int
	}{
		{Cell{0, 0}, Cell{0, 0}, 0},
		{Cell{0, 0}, Cell{3, 1}, 3},
		{Cell{2, 5}, Cell{0, 0}, 5},
		{Cell{-2, -2}, Cell{2, 2}, 4},
	}
	for _, tt := range tests {
		if got := Chebyshev(tt.a, tt.b); got != tt.want {
			t.Errorf("Chebyshev(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPositionCell(t *testing.T) {
	p := Position{X: 2.9, Y: 3.1}
	if c := p.Cell(); c != (Cell{X: 2, Y: 3}) {
		t.Errorf("Cell() = %v, want (2,3)", c)
	}
	if c := (Position{X: -0.5, Y: 0}).Cell(); c != (Cell{X: -1, Y: 0}) {
		t.Errorf("negative positions floor, got %v", c)
	}
}
