package broker

import (
	"time"

	"github.com/robotomize/convq/label"
)

// RateTable maps currency codes to their rate relative to Base. The table is
// replaced wholesale on a successful refresh and is never mutated in place
type RateTable struct {
	Base    label.Symbol             `json:"base"`
	Rates   map[label.Symbol]float64 `json:"rates"`
	Updated time.Time                `json:"updated"`
}

func (t RateTable) IsZero() bool {
	return len(t.Rates) == 0
}

func (t RateTable) Rate(symbol label.Symbol) (float64, bool) {
	rate, ok := t.Rates[symbol]
	return rate, ok
}
