package timeframe

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultLabel is used when an alert carries no usable timeframe.
const DefaultLabel = "1H"

// exact maps the encodings the alerting platform actually sends: bare minute
// counts, letter codes, and already-canonical labels (which makes Normalize
// idempotent).
var exact = map[string]string{
	"1":   "1m",
	"3":   "3m",
	"5":   "5m",
	"15":  "15m",
	"30":  "30m",
	"45":  "45m",
	"60":  "1H",
	"120": "2H",
	"240": "4H",
	"D":   "1D",
	"1D":  "1D",
	"W":   "1W",
	"1W":  "1W",
	"M":   "1M",
	"1M":  "1M",

	"1m":  "1m",
	"3m":  "3m",
	"5m":  "5m",
	"15m": "15m",
	"30m": "30m",
	"45m": "45m",
	"1H":  "1H",
	"2H":  "2H",
	"4H":  "4H",
}

// Normalize maps a raw timeframe encoding to its canonical label. It never
// fails: unknown input that is not a minute count passes through unchanged,
// and empty or "N/A" input gets the fallback label.
func Normalize(raw, fallback string) string {
	if fallback == "" {
		fallback = DefaultLabel
	}

	tf := strings.TrimSpace(raw)
	if tf == "" || strings.EqualFold(tf, "N/A") {
		return fallback
	}

	if label, ok := exact[tf]; ok {
		return label
	}
	// Letter codes arrive in either case; lone "m" stays ambiguous and is
	// resolved as monthly, matching the platform's own labels.
	if label, ok := exact[strings.ToUpper(tf)]; ok {
		return label
	}
	if label, ok := exact[strings.ToLower(tf)]; ok {
		return label
	}

	minutes, err := strconv.Atoi(tf)
	if err != nil || minutes <= 0 {
		return tf
	}
	return FromMinutes(minutes)
}

// FromMinutes converts a minute count into a canonical label.
func FromMinutes(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 60:
		return "1H"
	case minutes < 1440:
		return fmt.Sprintf("%dH", minutes/60)
	case minutes == 1440:
		return "1D"
	case minutes <= 10080:
		return "1W"
	case minutes == 43200:
		return "1M"
	default:
		return fmt.Sprintf("%dd", minutes/1440)
	}
}
