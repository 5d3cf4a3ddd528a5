package broker

import (
	"fmt"
	"strings"
	"time"
)

// UpdateFreq controls how old the cached rate table may get before the broker
// considers it stale
type UpdateFreq string

const (
	UpdateFreqHourly UpdateFreq = "hourly"
	UpdateFreqDaily  UpdateFreq = "daily"
	UpdateFreqWeekly UpdateFreq = "weekly"
	// UpdateFreqManual disables scheduled refreshes, rates change only via
	// Update/ForceUpdate
	UpdateFreqManual UpdateFreq = "manual"
)

func ParseUpdateFreq(s string) (UpdateFreq, error) {
	switch UpdateFreq(strings.ToLower(strings.TrimSpace(s))) {
	case UpdateFreqHourly:
		return UpdateFreqHourly, nil
	case UpdateFreqDaily:
		return UpdateFreqDaily, nil
	case UpdateFreqWeekly:
		return UpdateFreqWeekly, nil
	case UpdateFreqManual:
		return UpdateFreqManual, nil
	}

	return "", fmt.Errorf("value %q is not a valid update frequency", s)
}

// Threshold returns the staleness threshold. The second value is false for
// the manual frequency, which has no threshold at all
func (f UpdateFreq) Threshold() (time.Duration, bool) {
	switch f {
	case UpdateFreqHourly:
		return time.Hour, true
	case UpdateFreqDaily:
		return 24 * time.Hour, true
	case UpdateFreqWeekly:
		return 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}
