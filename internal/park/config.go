package park

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SimConfig is the full runtime configuration, loaded from a YAML file.
type SimConfig struct {
	Seed    int64         `yaml:"seed"`
	World   WorldConfig   `yaml:"world"`
	Economy EconomyConfig `yaml:"economy"`
	Spawns  SpawnConfig   `yaml:"spawns"`
	Goal    string        `yaml:"goal"`
	Defs    DefsConfig    `yaml:"defs"`

	DatabasePath  string `yaml:"databasePath"`
	TelemetryPath string `yaml:"telemetryPath"`
	APIAddr       string `yaml:"apiAddr"`
}

// WorldConfig sizes the generated park.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// EconomyConfig holds the starting money and fixed prices not tied to a
// definition record.
type EconomyConfig struct {
	StartingBalance int `yaml:"startingBalance"`
	EntryFee        int `yaml:"entryFee"`
	ChipPrice       int `yaml:"chipPrice"`
}

// SpawnConfig controls initial population and the random-interval timers.
type SpawnConfig struct {
	Herbivores int `yaml:"herbivores"`
	Carnivores int `yaml:"carnivores"`
	Rangers    int `yaml:"rangers"`
	Jeeps      int `yaml:"jeeps"`

	// Bounds of the random intervals, in time-units.
	PlantMin   float64 `yaml:"plantMin"`
	PlantMax   float64 `yaml:"plantMax"`
	PoacherMin float64 `yaml:"poacherMin"`
	PoacherMax float64 `yaml:"poacherMax"`
}

// DefsConfig names the definition records to load per category.
type DefsConfig struct {
	Root    string   `yaml:"root"`
	Tiles   []string `yaml:"tiles"`
	Animals []string `yaml:"animals"`
	Units   []string `yaml:"units"`
	Goals   []string `yaml:"goals"`
}

// DefaultConfig returns the stock configuration for a fresh park.
func DefaultConfig() *SimConfig {
	return &SimConfig{
		Seed:  1,
		World: WorldConfig{Width: 40, Height: 26},
		Economy: EconomyConfig{
			StartingBalance: 2000,
			EntryFee:        30,
			ChipPrice:       50,
		},
		Spawns: SpawnConfig{
			Herbivores: 8,
			Carnivores: 2,
			Rangers:    1,
			Jeeps:      2,
			PlantMin:   120,
			PlantMax:   360,
			PoacherMin: 600,
			PoacherMax: 1800,
		},
		Goal: "easy",
		Defs: DefsConfig{
			Root:    "assets/defs",
			Tiles:   []string{"grass", "sand", "water", "hill", "road"},
			Animals: []string{"gazelle", "zebra", "lion", "hyena"},
			Units:   []string{"jeep", "ranger", "poacher"},
			Goals:   []string{"easy", "hard"},
		},
		DatabasePath:  "safari.db",
		TelemetryPath: "telemetry.csv",
		APIAddr:       ":8080",
	}
}

// LoadConfig reads a YAML config file over the defaults; absent keys keep
// their default values.
func LoadConfig(path string) (*SimConfig, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}
