package reconcile

// Settings is one snapshot of user configuration. Every field is optional, a
// nil pointer means the key was never set, which is not the same as an empty
// string the user wrote on purpose
type Settings struct {
	UpdateFreq            *string
	AppID                 *string
	InputCurrency         *string
	OutputCurrencies      *string
	Separators            *string
	DestinationSeparators *string
	Aliases               *string
}

// String is a convenience for building optional Settings fields
func String(s string) *string {
	return &s
}

func strValue(p *string) (string, bool) {
	if p == nil {
		return "", false
	}

	return *p, true
}

func strEqual(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}

	return a == nil || *a == *b
}

// Equal reports whether two snapshots configure the same state
func (s Settings) Equal(other Settings) bool {
	return strEqual(s.UpdateFreq, other.UpdateFreq) &&
		strEqual(s.AppID, other.AppID) &&
		strEqual(s.InputCurrency, other.InputCurrency) &&
		strEqual(s.OutputCurrencies, other.OutputCurrencies) &&
		strEqual(s.Separators, other.Separators) &&
		strEqual(s.DestinationSeparators, other.DestinationSeparators) &&
		strEqual(s.Aliases, other.Aliases)
}
