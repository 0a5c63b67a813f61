// Package telemetry aggregates per-day park statistics and appends them to a
// CSV file for offline analysis.
package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/park"
)

// DayStats is one CSV row: the park's vital signs at the close of a day.
type DayStats struct {
	Day        int     `csv:"day"`
	Animals    int     `csv:"animals"`
	Herbivores int     `csv:"herbivores"`
	Carnivores int     `csv:"carnivores"`
	MeanHunger float64 `csv:"mean_hunger"`
	MeanThirst float64 `csv:"mean_thirst"`
	Visitors   int     `csv:"visitors"`
	Balance    int     `csv:"balance"`
	Rating     int     `csv:"rating"`
	Streak     int     `csv:"streak"`
}

// Collect snapshots the model into a stats row for the given day.
func Collect(md *park.Model, day int) DayStats {
	animals := md.Map.Animals()

	var hunger, thirst []float64
	for _, aa := range animals {
		a := aa.AnimalState()
		hunger = append(hunger, a.Hunger)
		thirst = append(thirst, a.Thirst)
	}

	s := DayStats{
		Day:        day,
		Animals:    len(animals),
		Herbivores: md.Map.CountDiet(agents.DietHerbivore),
		Carnivores: md.Map.CountDiet(agents.DietCarnivore),
		Visitors:   md.VisitorsToday(),
		Balance:    md.Balance,
		Rating:     md.Rating(),
		Streak:     md.Streak(),
	}
	if len(hunger) > 0 {
		s.MeanHunger = stat.Mean(hunger, nil)
		s.MeanThirst = stat.Mean(thirst, nil)
	}
	return s
}
