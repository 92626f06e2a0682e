package series

import (
	"time"

	"github.com/shopspring/decimal"
)

// Meta describes a data-provider series: identifier, display title and units.
type Meta struct {
	ID         string
	Title      string
	Units      string
	Frequency  string
	Popularity int
}

// Observation is a single dated value of a series.
// Values stay decimal end to end so display formatting never round-trips
// through float64.
type Observation struct {
	Date  time.Time
	Value decimal.Decimal
}

// Latest returns the most recent observation of a date-ascending slice.
func Latest(obs []Observation) (Observation, bool) {
	if len(obs) == 0 {
		return Observation{}, false
	}
	return obs[len(obs)-1], true
}
