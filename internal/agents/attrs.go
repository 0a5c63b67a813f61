package agents

import "github.com/henriktoth/safarimanager/internal/world"

// Attrs holds the static per-kind attributes decoded from a definition
// record. One Attrs value is loaded per kind and shared by every instance.
type Attrs struct {
	Speed        float64 `yaml:"speed"`
	Size         float64 `yaml:"size"`
	ViewDistance int     `yaml:"viewDistance"`
	Price        int     `yaml:"price"`
	SellPrice    int     `yaml:"sellPrice"`
	Salary       int     `yaml:"salary"`   // rangers: daily wage
	Capacity     int     `yaml:"capacity"` // jeeps: passenger seats
	Diet         string  `yaml:"diet"`     // animals: "herbivore" or "carnivore"
	Texture      string  `yaml:"texture"`
	Layer        int     `yaml:"layer"`
}

// Diet values from definition records.
const (
	DietHerbivore = "herbivore"
	DietCarnivore = "carnivore"
)

// DrawData is the rendering facade: everything a renderer needs to draw an
// agent, with no drawing performed here.
type DrawData struct {
	Pos     world.Position
	Texture string
	Scale   float64
	Layer   int
}

// Draw returns the agent's draw data.
func (b *Base) Draw() DrawData {
	return DrawData{
		Pos:     b.pos,
		Texture: b.attrs.Texture,
		Scale:   b.attrs.Size,
		Layer:   b.attrs.Layer,
	}
}
