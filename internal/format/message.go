package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"signalbot/models"
)

// Message renders a signal with its computed risk parameters into the
// Markdown block sent to the channel. Pure function, no I/O.
func Message(sig *models.Signal, params *models.RiskParameters, result *models.ValidationResult) string {
	var b strings.Builder

	b.WriteString(header(sig))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "• *PAIR*: `%s`\n", sig.Instrument)
	fmt.Fprintf(&b, "• *ACTION*: `%s`\n", ActionLabel(sig))
	if sig.HasPrice {
		fmt.Fprintf(&b, "• *ENTRY*: `%s`\n", Price(sig.EntryPrice, sig.Category))
	}

	if params != nil {
		fmt.Fprintf(&b, "• *STOP LOSS*: `%s`\n", Price(params.StopLoss, sig.Category))
		lines := lo.Map(params.TakeProfits, func(tp models.TakeProfit, _ int) string {
			return fmt.Sprintf("• *TP%d*: `%s` (%s:1)", tp.Level, Price(tp.Price, sig.Category), ratio(tp.Ratio))
		})
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "• *R/R*: `%s:1`\n", ratio(params.RiskReward))
		fmt.Fprintf(&b, "• *SIZE*: `%.2f`\n", params.PositionSize)
	}

	fmt.Fprintf(&b, "• *TIMEFRAME*: `%s`\n", sig.Timeframe)
	if result != nil {
		fmt.Fprintf(&b, "• *CONFIDENCE*: `%.0f%%`\n", result.Confidence*100)
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  ⚠ %s\n", w)
		}
	}
	fmt.Fprintf(&b, "• *TIME*: `%s`", Timestamp(sig.ReceivedAt))

	return b.String()
}

// RawRelay renders the minimal pair/action/price block used when risk
// parameters could not be computed but relay policy allows passing the signal
// through.
func RawRelay(sig *models.Signal) string {
	price := models.Unresolved
	if sig.HasPrice {
		price = Price(sig.EntryPrice, sig.Category)
	}
	return fmt.Sprintf("🚨 *SIGNAL* 🚨\n\n• *PAIR*: `%s`\n• *ACTION*: `%s`\n• *PRICE*: `%s`\n• *TIME*: `%s`",
		sig.Instrument, ActionLabel(sig), price, Timestamp(sig.ReceivedAt))
}

func header(sig *models.Signal) string {
	switch {
	case sig.IsExit:
		return "🔔 *EXIT SIGNAL* 🔔"
	case sig.Direction == models.DirectionLong:
		return "🟢 *LONG SIGNAL* 🟢"
	case sig.Direction == models.DirectionShort:
		return "🔴 *SHORT SIGNAL* 🔴"
	default:
		return "🚨 *SIGNAL* 🚨"
	}
}

// ActionLabel renders the action the way the channel reads it: the direction
// for entries, EXIT (optionally with the closed side) for exits.
func ActionLabel(sig *models.Signal) string {
	if sig.IsExit {
		if sig.Direction == models.DirectionLong || sig.Direction == models.DirectionShort {
			return fmt.Sprintf("EXIT %s", sig.Direction)
		}
		return "EXIT"
	}
	return string(sig.Direction)
}

// Price formats a level per instrument category: forex 5 decimals, indices
// thousands-separated integers, commodities and crypto 2 decimals. Display
// only; the numeric value used for risk math is never rounded.
func Price(v float64, category models.InstrumentCategory) string {
	switch category {
	case models.CategoryIndices:
		return thousands(v)
	case models.CategoryForex:
		return fmt.Sprintf("%.5f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func thousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// ratio drops a trailing .0 so ladders read 2:1, not 2.0:1.
func ratio(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

// Timestamp renders the notification clock line, always in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format("15:04 UTC")
}
