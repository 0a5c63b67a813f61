package park

import (
	"fmt"

	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/defs"
	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/world"
)

// NewPark builds a fresh park from the configuration: catalog load,
// generated terrain, map, model, and the starting population of animals,
// rangers, and jeeps.
func NewPark(cfg *SimConfig, store *defs.Store, rng entropy.Source) (*Model, error) {
	catalog, err := LoadCatalog(store, cfg.Defs)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	pal, err := palette(catalog)
	if err != nil {
		return nil, err
	}
	gen := world.DefaultGenConfig()
	gen.Width = cfg.World.Width
	gen.Height = cfg.World.Height
	gen.Seed = cfg.Seed
	grid := world.Generate(gen, pal)

	m := NewMap(grid, catalog, cfg.Spawns, rng)
	goal, ok := catalog.Goals.Lookup(cfg.Goal)
	if !ok {
		return nil, fmt.Errorf("unknown goal %q", cfg.Goal)
	}
	model := NewModel(m, catalog, cfg, goal, rng)

	if err := populate(model, cfg); err != nil {
		return nil, err
	}
	return model, nil
}

// palette maps the generation slots onto loaded tile kinds by their flags.
func palette(c *Catalog) (world.Palette, error) {
	var pal world.Palette
	for _, id := range c.Tiles.IDs() {
		kind, _ := c.Tiles.Lookup(id)
		switch {
		case kind.Road:
			pal.Road = kind
		case kind.Water:
			pal.Water = kind
		case kind.Elevated:
			pal.Hill = kind
		case kind.Edible:
			pal.Grass = kind
		default:
			pal.Sand = kind
		}
	}
	if pal.Grass == nil || pal.Sand == nil || pal.Water == nil || pal.Hill == nil || pal.Road == nil {
		return pal, fmt.Errorf("tile catalog does not cover the terrain palette")
	}
	return pal, nil
}

// populate seeds the starting roster. Animals are split evenly across the
// configured kinds, one breeding group per kind, scattered on open terrain.
func populate(md *Model, cfg *SimConfig) error {
	herbKinds, carnKinds := dietKinds(md.catalog)
	if cfg.Spawns.Herbivores > 0 && len(herbKinds) == 0 {
		return fmt.Errorf("no herbivore kinds in catalog")
	}
	if cfg.Spawns.Carnivores > 0 && len(carnKinds) == 0 {
		return fmt.Errorf("no carnivore kinds in catalog")
	}

	groupByKind := make(map[string]int)
	spawnAnimal := func(kind string) {
		cell, ok := md.Map.randomOpenCell()
		if !ok {
			return
		}
		gid, ok := groupByKind[kind]
		if !ok {
			gid = md.NewGroupID()
			groupByKind[kind] = gid
		}
		animal, ok := md.catalog.NewAnimal(kind, cell.Center())
		if !ok {
			return
		}
		st := animal.AnimalState()
		st.Group = gid
		st.Age = agents.AdultAge // founders start grown
		md.Map.AddGroup(gid, kind)
		md.Map.AddAgent(animal)
	}

	for i := 0; i < cfg.Spawns.Herbivores; i++ {
		spawnAnimal(herbKinds[i%len(herbKinds)])
	}
	for i := 0; i < cfg.Spawns.Carnivores; i++ {
		spawnAnimal(carnKinds[i%len(carnKinds)])
	}

	for i := 0; i < cfg.Spawns.Rangers; i++ {
		if ranger, ok := md.catalog.NewRanger(md.Map.Grid.Entrance.Center()); ok {
			md.Map.AddAgent(ranger)
		}
	}
	for i := 0; i < cfg.Spawns.Jeeps; i++ {
		if jeep, ok := md.catalog.NewJeep(md.Map.Grid.Entrance.Center()); ok {
			md.Map.AddWaitingJeep(jeep)
		}
	}
	return nil
}

func dietKinds(c *Catalog) (herb, carn []string) {
	for _, id := range c.Animals.IDs() {
		attrs, _ := c.Animals.Lookup(id)
		switch attrs.Diet {
		case agents.DietHerbivore:
			herb = append(herb, id)
		case agents.DietCarnivore:
			carn = append(carn, id)
		}
	}
	return herb, carn
}

// randomOpenCell picks a non-obstacle, non-road cell, giving up after a
// bounded number of draws.
func (m *Map) randomOpenCell() (world.Cell, bool) {
	for i := 0; i < 64; i++ {
		c := world.Cell{X: m.rng.Intn(m.Grid.Width), Y: m.rng.Intn(m.Grid.Height)}
		if t, ok := m.Grid.TileAt(c); ok && t.Kind != nil && !t.Kind.Obstacle && !t.Kind.Road {
			return c, true
		}
	}
	return world.Cell{}, false
}
