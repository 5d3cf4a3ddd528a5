package query

import "github.com/robotomize/convq/label"

// Amount is a single source clause: how much of which currency. A zero Symbol
// means the caller's default source currency
type Amount struct {
	Symbol label.Symbol
	Value  float64
}

// Request is a structured conversion request produced by the parser. Nil
// Sources or Destinations are backfilled from broker defaults by the caller
type Request struct {
	Sources      []Amount
	Destinations []label.Symbol
	// Extra is reserved for future grammar extensions and is ignored by
	// conversion
	Extra string
}

// IsTemplate reports whether the request carries no parsed content at all
func (r Request) IsTemplate() bool {
	return r.Sources == nil && r.Destinations == nil
}
