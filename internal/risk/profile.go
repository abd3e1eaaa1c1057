package risk

import "time"

// Profile carries the per-timeframe risk parameters: stop distance inputs,
// the risk/reward ladder, and the validity/confidence thresholds the
// validator reads. Variants of these numbers exist in the wild; this table is
// the one canonical set, data not code.
type Profile struct {
	// StopPips sizes the stop for pip-denominated categories (forex) and, as
	// raw points, for indices.
	StopPips float64
	// StopPercent sizes the stop as a percentage of entry price for
	// commodities and crypto, where fixed pips do not scale with price level.
	StopPercent float64
	// Ratios is the ascending risk/reward ladder; the last entry is the
	// headline figure.
	Ratios []float64
	// Validity bounds how old a declared alert time may be.
	Validity time.Duration
	// MinConfidence is the floor below which the validator rejects.
	MinConfidence float64
}

var profiles = map[string]Profile{
	"1m":  {StopPips: 2, StopPercent: 0.10, Ratios: []float64{1, 1.5, 2}, Validity: 15 * time.Minute, MinConfidence: 0.90},
	"3m":  {StopPips: 3, StopPercent: 0.15, Ratios: []float64{1, 1.5, 2.5}, Validity: 30 * time.Minute, MinConfidence: 0.85},
	"5m":  {StopPips: 5, StopPercent: 0.20, Ratios: []float64{1, 2, 3}, Validity: time.Hour, MinConfidence: 0.80},
	"15m": {StopPips: 8, StopPercent: 0.30, Ratios: []float64{1.5, 2.5, 3.5}, Validity: 2 * time.Hour, MinConfidence: 0.75},
	"30m": {StopPips: 12, StopPercent: 0.40, Ratios: []float64{1.5, 2.5, 4}, Validity: 4 * time.Hour, MinConfidence: 0.70},
	"1H":  {StopPips: 15, StopPercent: 0.50, Ratios: []float64{2, 3, 5}, Validity: 8 * time.Hour, MinConfidence: 0.65},
	"2H":  {StopPips: 20, StopPercent: 0.70, Ratios: []float64{2, 3, 5}, Validity: 12 * time.Hour, MinConfidence: 0.65},
	"4H":  {StopPips: 30, StopPercent: 1.00, Ratios: []float64{2, 4, 6}, Validity: 24 * time.Hour, MinConfidence: 0.60},
	"1D":  {StopPips: 50, StopPercent: 2.00, Ratios: []float64{2.5, 5, 8}, Validity: 72 * time.Hour, MinConfidence: 0.55},
	"1W":  {StopPips: 100, StopPercent: 4.00, Ratios: []float64{3, 5, 8}, Validity: 7 * 24 * time.Hour, MinConfidence: 0.50},
}

// ProfileFor returns the profile for a canonical timeframe label, falling back
// to the 1H profile for labels outside the table (a passthrough normalizer
// result, for example).
func ProfileFor(timeframe string) Profile {
	if p, ok := profiles[timeframe]; ok {
		return p
	}
	return profiles["1H"]
}
