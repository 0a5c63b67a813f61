package park

// Goal is a win condition: four daily thresholds plus the number of
// consecutive qualifying days required. Checked once per simulated day.
type Goal struct {
	ID            string `yaml:"-"`
	MinBalance    int    `yaml:"minBalance"`
	MinHerbivores int    `yaml:"minHerbivores"`
	MinCarnivores int    `yaml:"minCarnivores"`
	MinVisitors   int    `yaml:"minVisitors"`
	Days          int    `yaml:"days"`
}

// Met reports whether a single day satisfies every threshold.
func (g Goal) Met(balance, herbivores, carnivores, visitors int) bool {
	return balance >= g.MinBalance &&
		herbivores >= g.MinHerbivores &&
		carnivores >= g.MinCarnivores &&
		visitors >= g.MinVisitors
}
