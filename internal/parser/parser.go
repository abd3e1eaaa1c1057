package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"signalbot/internal/instrument"
	"signalbot/internal/timeframe"
	"signalbot/models"
)

var (
	// Quoted key, optional quotes around the value, value terminated by
	// comma, brace or bracket. Matches the platform's malformed array-style
	// messages like ["pair":"EURUSD","price":1.17709,"action":"LONG"].
	bracketPairRe = regexp.MustCompile(`"([^"]+)"\s*:\s*"?([^",}\]]+)"?`)

	pairRe  = regexp.MustCompile(`\b([A-Z]{6})\b`)
	priceRe = regexp.MustCompile(`([0-9]+\.[0-9]+)`)
)

var exitTokens = []string{"exit", "close", "flat", "stop", "target", "tp", "sl"}

// Parser turns heterogeneous alert payloads into canonical signals. It is
// stateless apart from its configuration and never returns an error: fields
// no tier can resolve stay at the Unresolved sentinel and downstream stages
// treat them as terminal.
type Parser struct {
	defaultTimeframe string
	logger           zerolog.Logger
}

// New creates a parser with the configured fallback timeframe.
func New(defaultTimeframe string) *Parser {
	return &Parser{
		defaultTimeframe: defaultTimeframe,
		logger:           log.With().Str("component", "parser").Logger(),
	}
}

// Parse extracts a canonical signal from a raw webhook body. Extraction runs
// through three tiers; each later tier only fills fields the earlier ones
// left unresolved.
func (p *Parser) Parse(body []byte) *models.Signal {
	sig := &models.Signal{
		ID:         uuid.NewString(),
		Instrument: models.Unresolved,
		Direction:  models.Direction(models.Unresolved),
		Timeframe:  p.defaultTimeframe,
		ReceivedAt: time.Now().UTC(),
	}

	data, message := p.decode(body)

	pair := models.Unresolved
	action := models.Unresolved
	price := ""
	tf := ""

	// Tier 1: structured fields, first non-empty key wins.
	if data != nil {
		pair = firstString(data, pair, "ticker", "symbol", "pair")
		price = firstValue(data, price, "close", "price")
		action = firstString(data, action, "strategy.order.action", "action", "side")
		tf = firstValue(data, tf, "interval", "timeframe", "tf")
		if message == "" {
			message = firstString(data, "", "message", "text", "alert")
		}
		p.extractAlertTime(data, sig)
		p.extractIndicators(data, sig)
	}

	// Tier 2: bracketed quasi-JSON inside the message field.
	if anyUnresolved(pair, price, action) && strings.HasPrefix(strings.TrimSpace(message), "[") && strings.Contains(message, ":") {
		pair, price, action, tf = p.parseBracketMessage(message, pair, price, action, tf)
	}

	// Tier 3: free-text sentence.
	if anyUnresolved(pair, price, action) && message != "" {
		pair, price, action, tf = p.parseFreeText(message, pair, price, action, tf)
	}

	sig.RawAction = action
	p.applyAction(sig, action)

	if pair != models.Unresolved && pair != "" {
		sig.Instrument = cleanSymbol(pair)
		sig.Category = instrument.Classify(sig.Instrument)
	} else {
		sig.Category = models.CategoryForex
	}

	if price != "" && price != models.Unresolved {
		if v, err := strconv.ParseFloat(strings.TrimSpace(price), 64); err == nil && v > 0 {
			sig.EntryPrice = v
			sig.HasPrice = true
		}
	}

	sig.Timeframe = timeframe.Normalize(tf, p.defaultTimeframe)

	p.logger.Debug().
		Str("signal_id", sig.ID).
		Str("instrument", sig.Instrument).
		Str("direction", string(sig.Direction)).
		Bool("is_exit", sig.IsExit).
		Bool("has_price", sig.HasPrice).
		Str("timeframe", sig.Timeframe).
		Msg("Extracted signal")

	return sig
}

// decode unmarshals the body, repairing malformed JSON when plain decoding
// fails. A body that is not JSON at all is treated as a bare text message.
func (p *Parser) decode(body []byte) (map[string]any, string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
		return data, ""
	}

	if strings.HasPrefix(trimmed, "{") {
		if repaired, err := jsonrepair.JSONRepair(trimmed); err == nil {
			if err := json.Unmarshal([]byte(repaired), &data); err == nil {
				p.logger.Debug().Msg("Recovered malformed JSON body")
				return data, ""
			}
		}
	}

	return nil, trimmed
}

// parseBracketMessage pulls key/value pairs out of the malformed array-like
// string via tolerant pattern matching. Unrecognized keys are ignored.
func (p *Parser) parseBracketMessage(message, pair, price, action, tf string) (string, string, string, string) {
	clean := strings.Trim(strings.TrimSpace(message), "[]")
	for _, m := range bracketPairRe.FindAllStringSubmatch(clean, -1) {
		key, value := m[1], strings.TrimSpace(m[2])
		switch strings.ToLower(key) {
		case "pair", "ticker", "symbol":
			if unresolved(pair) {
				pair = value
			}
		case "price", "close":
			if unresolved(price) {
				price = value
			}
		case "action", "side":
			if unresolved(action) {
				action = value
			}
		case "interval", "timeframe", "tf":
			if tf == "" {
				tf = value
			}
		}
	}
	return pair, price, action, tf
}

// parseFreeText handles "PAIR ACTION @ PRICE on TIMEFRAME" sentences and bare
// text containing direction keywords.
func (p *Parser) parseFreeText(message, pair, price, action, tf string) (string, string, string, string) {
	upper := strings.ToUpper(message)

	if before, after, found := strings.Cut(message, "@"); found {
		head := strings.Fields(before)
		if len(head) >= 2 {
			if unresolved(pair) {
				pair = head[0]
			}
			if unresolved(action) {
				action = head[1]
			}
		}
		tail := strings.Fields(after)
		if len(tail) >= 1 && unresolved(price) {
			price = tail[0]
		}
		for i, tok := range tail {
			if strings.EqualFold(tok, "on") && i+1 < len(tail) && tf == "" {
				tf = tail[i+1]
			}
		}
	}

	hasDirectionWord := lo.SomeBy([]string{"LONG", "SHORT", "BUY", "SELL"}, func(w string) bool {
		return strings.Contains(upper, w)
	})
	if hasDirectionWord {
		if unresolved(pair) {
			if m := pairRe.FindStringSubmatch(upper); m != nil {
				pair = m[1]
			}
		}
		if unresolved(price) {
			if m := priceRe.FindStringSubmatch(message); m != nil {
				price = m[1]
			}
		}
		if unresolved(action) {
			switch {
			case strings.Contains(upper, "LONG") || strings.Contains(upper, "BUY"):
				action = "LONG"
			case strings.Contains(upper, "SHORT") || strings.Contains(upper, "SELL"):
				action = "SHORT"
			}
		}
	}

	return pair, price, action, tf
}

// applyAction normalizes the action token into direction and exit flags.
func (p *Parser) applyAction(sig *models.Signal, action string) {
	if unresolved(action) {
		return
	}
	lower := strings.ToLower(action)

	sig.IsExit = lo.SomeBy(exitTokens, func(t string) bool {
		return strings.Contains(lower, t)
	})

	// A generic exit with no recoverable direction keeps the sentinel; the
	// formatter renders it as a plain EXIT.
	switch {
	case strings.Contains(lower, "long") || strings.Contains(lower, "buy"):
		sig.Direction = models.DirectionLong
	case strings.Contains(lower, "short") || strings.Contains(lower, "sell"):
		sig.Direction = models.DirectionShort
	}
}

func (p *Parser) extractAlertTime(data map[string]any, sig *models.Signal) {
	raw := firstValue(data, "", "time", "timenow")
	if raw == "" {
		return
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		sig.AlertTime = ts.UTC()
		return
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil && unix > 0 {
		// Millisecond timestamps are ~3 digits longer than second ones.
		if unix > 1e12 {
			unix /= 1000
		}
		sig.AlertTime = time.Unix(unix, 0).UTC()
	}
}

func (p *Parser) extractIndicators(data map[string]any, sig *models.Signal) {
	if v, ok := numberAt(data, "rsi"); ok {
		sig.RSI = &v
	}
	if v, ok := numberAt(data, "adx"); ok {
		sig.ADX = &v
	}
}

// cleanSymbol uppercases, strips contract-marker suffixes and removes
// internal whitespace.
func cleanSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimSuffix(s, ".P")
	s = strings.TrimSuffix(s, ".C")
	return strings.ReplaceAll(s, " ", "")
}

func unresolved(v string) bool {
	return v == "" || v == models.Unresolved
}

func anyUnresolved(values ...string) bool {
	return lo.SomeBy(values, unresolved)
}

// firstString returns the first non-empty string value among the given keys.
func firstString(data map[string]any, current string, keys ...string) string {
	if !unresolved(current) {
		return current
	}
	for _, key := range keys {
		if v, ok := data[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return current
}

// firstValue is firstString but tolerates numeric JSON values, rendering them
// back to text for the shared coercion path.
func firstValue(data map[string]any, current string, keys ...string) string {
	if current != "" && current != models.Unresolved {
		return current
	}
	for _, key := range keys {
		switch v := data[key].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return current
}

func numberAt(data map[string]any, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
