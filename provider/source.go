package provider

import (
	"context"
	"time"

	"github.com/robotomize/convq/label"
)

// Source is an interface for getting exchange rate data from external sources.
// Source takes care of receiving data and giving back a rate snapshot
//
//go:generate mockgen -source source.go -destination mock_source.go -package provider
type Source interface {
	// FetchLatest obtains the latest exchange rate snapshot
	FetchLatest(ctx context.Context) (Snapshot, error)

	// GetExchangeable declares to give a list of exchangeable currencies
	GetExchangeable() []label.Symbol
}

// Snapshot represents the rates of all exchangeable currencies relative to
// a single base currency on a given date
type Snapshot struct {
	Base  label.Symbol
	Time  time.Time
	Rates map[label.Symbol]float64
}
