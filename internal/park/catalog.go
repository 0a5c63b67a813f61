package park

import (
	"fmt"

	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/defs"
	"github.com/henriktoth/safarimanager/internal/world"
)

// Catalog holds the kind registries built from definition records: one per
// category, id to shared attributes. Factory lookups on an unknown id return
// false and callers treat that as a no-op.
type Catalog struct {
	Tiles   *defs.Registry[*world.TileKind]
	Animals *defs.Registry[agents.Attrs]
	Units   *defs.Registry[agents.Attrs]
	Goals   *defs.Registry[Goal]

	// fallback kind id -> edible kind that regrows there
	regrowth map[string]*world.TileKind
}

// LoadCatalog reads every configured definition record through the store and
// registers it. A failed load aborts; nothing is ever constructed from a
// record that did not decode.
func LoadCatalog(store *defs.Store, cfg DefsConfig) (*Catalog, error) {
	c := &Catalog{
		Tiles:    defs.NewRegistry[*world.TileKind](),
		Animals:  defs.NewRegistry[agents.Attrs](),
		Units:    defs.NewRegistry[agents.Attrs](),
		Goals:    defs.NewRegistry[Goal](),
		regrowth: make(map[string]*world.TileKind),
	}

	for _, id := range cfg.Tiles {
		kind := &world.TileKind{}
		if err := store.Decode("tiles/"+id, kind); err != nil {
			return nil, err
		}
		kind.ID = id
		c.Tiles.Register(id, kind)
	}
	for _, id := range cfg.Tiles {
		kind, _ := c.Tiles.Lookup(id)
		if kind.Edible && kind.Fallback != "" {
			c.regrowth[kind.Fallback] = kind
		}
	}

	for _, id := range cfg.Animals {
		var attrs agents.Attrs
		if err := store.Decode("animals/"+id, &attrs); err != nil {
			return nil, err
		}
		if attrs.Diet != agents.DietHerbivore && attrs.Diet != agents.DietCarnivore {
			return nil, fmt.Errorf("animal %q: unknown diet %q", id, attrs.Diet)
		}
		c.Animals.Register(id, attrs)
	}

	for _, id := range cfg.Units {
		var attrs agents.Attrs
		if err := store.Decode("units/"+id, &attrs); err != nil {
			return nil, err
		}
		c.Units.Register(id, attrs)
	}

	for _, id := range cfg.Goals {
		var g Goal
		if err := store.Decode("goals/"+id, &g); err != nil {
			return nil, err
		}
		g.ID = id
		c.Goals.Register(id, g)
	}

	return c, nil
}

// NewAnimal constructs an animal of the kind at the position, dispatched on
// the kind's diet.
func (c *Catalog) NewAnimal(kind string, pos world.Position) (agents.AnimalAgent, bool) {
	attrs, ok := c.Animals.Lookup(kind)
	if !ok {
		return nil, false
	}
	switch attrs.Diet {
	case agents.DietHerbivore:
		return agents.NewHerbivore(kind, attrs, pos), true
	case agents.DietCarnivore:
		return agents.NewCarnivore(kind, attrs, pos), true
	}
	return nil, false
}

// NewJeep constructs a tour jeep at the position.
func (c *Catalog) NewJeep(pos world.Position) (*agents.Jeep, bool) {
	attrs, ok := c.Units.Lookup("jeep")
	if !ok {
		return nil, false
	}
	return agents.NewJeep(attrs, pos), true
}

// NewRanger constructs a ranger at the position.
func (c *Catalog) NewRanger(pos world.Position) (*agents.Ranger, bool) {
	attrs, ok := c.Units.Lookup("ranger")
	if !ok {
		return nil, false
	}
	return agents.NewRanger(attrs, pos), true
}

// NewPoacher constructs a poacher at the position.
func (c *Catalog) NewPoacher(pos world.Position) (*agents.Poacher, bool) {
	attrs, ok := c.Units.Lookup("poacher")
	if !ok {
		return nil, false
	}
	return agents.NewPoacher(attrs, pos), true
}

// RegrowKind returns the edible kind that regrows on tiles of the given
// kind id, if any.
func (c *Catalog) RegrowKind(fallbackID string) (*world.TileKind, bool) {
	kind, ok := c.regrowth[fallbackID]
	return kind, ok
}
