package reconcile

// Tier records which level of the fallback chain produced an applied value
type Tier string

const (
	// TierUser means the user-supplied value was valid and won
	TierUser Tier = "user"
	// TierDefault means the documented default was used
	TierDefault Tier = "default"
	// TierFallback means even the default could not apply and the minimal
	// hardcoded value won
	TierFallback Tier = "fallback"
)

// Report describes one Apply run: which fields changed, which chain tier each
// applied value came from and every recoverable problem hit along the way
type Report struct {
	// Initialized is true for the run that constructed the broker
	Initialized bool
	// Changed lists the setting names whose applied value differs from the
	// previous run
	Changed []string
	// ForcedUpdate is true when the run scheduled an immediate rate refresh
	ForcedUpdate bool

	Fields     map[string]Tier
	ParserTier Tier

	AliasCount        int
	SkippedAliasLines int

	// Err aggregates recoverable problems, nil when the run was clean
	Err error
}

func (r *Report) markChanged(field string) {
	r.Changed = append(r.Changed, field)
}

func (r *Report) setTier(field string, tier Tier) {
	if r.Fields == nil {
		r.Fields = map[string]Tier{}
	}

	r.Fields[field] = tier
}
