// Starter terrain generation using layered simplex noise.
// Produces a plausible savanna: grass plains, watering holes, hills, and
// sand, with a straight road carved from entrance to exit so a fresh park
// can open immediately.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Palette names the tile kinds terrain generation places. All fields must be
// non-nil.
type Palette struct {
	Grass *TileKind
	Sand  *TileKind
	Water *TileKind
	Hill  *TileKind
	Road  *TileKind
}

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Seed      int64   `yaml:"seed"`
	WaterLvl  float64 `yaml:"water_level"` // noise threshold below which water appears
	HillLvl   float64 `yaml:"hill_level"`  // noise threshold above which hills appear
	SandPatch float64 `yaml:"sand_patch"`  // dryness threshold for sand
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:     40,
		Height:    26,
		Seed:      0,
		WaterLvl:  0.22,
		HillLvl:   0.78,
		SandPatch: 0.70,
	}
}

// Generate creates a grid with noise-derived terrain and a connecting road.
func Generate(cfg GenConfig, pal Palette) *Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Independent layers for elevation and dryness.
	elevNoise := opensimplex.NewNormalized(seed)
	dryNoise := opensimplex.NewNormalized(seed + 1)

	g := NewGrid(cfg.Width, cfg.Height, pal.Grass)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			fx := float64(x) * 0.12
			fy := float64(y) * 0.12

			elev := octaveNoise(elevNoise, fx, fy, 3, 1.0, 0.5)
			dry := octaveNoise(dryNoise, fx, fy, 2, 0.8, 0.5)

			kind := pal.Grass
			switch {
			case elev < cfg.WaterLvl:
				kind = pal.Water
			case elev > cfg.HillLvl:
				kind = pal.Hill
			case dry > cfg.SandPatch:
				kind = pal.Sand
			}
			g.SetTile(Cell{X: x, Y: y}, kind)
		}
	}

	// Carve a straight road across the middle so the park has an
	// entrance-exit connection from day one.
	y := g.Entrance.Y
	for x := 0; x < cfg.Width; x++ {
		g.SetTile(Cell{X: x, Y: y}, pal.Road)
	}

	return g
}

// octaveNoise samples multi-octave 2D noise, normalized to [0, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxValue
}
