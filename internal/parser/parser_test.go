package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalbot/models"
)

func TestParseStructuredFields(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`{"ticker":"EURUSD.P","close":1.09876,"strategy.order.action":"buy","interval":"15"}`))

	assert.Equal(t, "EURUSD", sig.Instrument)
	assert.Equal(t, models.CategoryForex, sig.Category)
	assert.Equal(t, models.DirectionLong, sig.Direction)
	assert.False(t, sig.IsExit)
	require.True(t, sig.HasPrice)
	assert.InDelta(t, 1.09876, sig.EntryPrice, 1e-9)
	assert.Equal(t, "15m", sig.Timeframe)
	assert.True(t, sig.Resolved())
}

func TestParseFieldPrecedence(t *testing.T) {
	p := New("1H")

	// ticker beats symbol beats pair; close beats price.
	sig := p.Parse([]byte(`{"ticker":"GBPUSD","symbol":"EURUSD","close":"1.25","price":"9.99","action":"sell"}`))

	assert.Equal(t, "GBPUSD", sig.Instrument)
	assert.InDelta(t, 1.25, sig.EntryPrice, 1e-9)
	assert.Equal(t, models.DirectionShort, sig.Direction)
}

func TestParseBracketMessage(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`{"message":"[\"pair\":\"EURUSD\",\"price\":1.17709,\"action\":\"LONG\"]"}`))

	assert.Equal(t, "EURUSD", sig.Instrument)
	require.True(t, sig.HasPrice)
	assert.InDelta(t, 1.17709, sig.EntryPrice, 1e-9)
	assert.Equal(t, models.DirectionLong, sig.Direction)
}

func TestParseBracketBody(t *testing.T) {
	p := New("1H")

	// The bracket garbage can also arrive as the whole body.
	sig := p.Parse([]byte(`["pair":"USDJPY","price":148.25,"action":"SHORT","tf":"60"]`))

	assert.Equal(t, "USDJPY", sig.Instrument)
	assert.Equal(t, models.DirectionShort, sig.Direction)
	assert.InDelta(t, 148.25, sig.EntryPrice, 1e-9)
	assert.Equal(t, "1H", sig.Timeframe)
}

func TestParseBracketExitAction(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`{"message":"[\"pair\":\"EURUSD\",\"price\":1.17709,\"action\":\"LONG_MR_EXIT\"]"}`))

	assert.Equal(t, "EURUSD", sig.Instrument)
	assert.Equal(t, models.DirectionLong, sig.Direction)
	assert.True(t, sig.IsExit)
	assert.Equal(t, "LONG_MR_EXIT", sig.RawAction)
}

func TestParseFreeTextSentence(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`{"message":"EURUSD buy @ 1.09876 on 15"}`))

	assert.Equal(t, "EURUSD", sig.Instrument)
	assert.Equal(t, models.DirectionLong, sig.Direction)
	require.True(t, sig.HasPrice)
	assert.InDelta(t, 1.09876, sig.EntryPrice, 1e-9)
	assert.Equal(t, "15m", sig.Timeframe)
}

func TestParseBareText(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`Going SHORT GBPJPY here at 188.123, tight stop`))

	assert.Equal(t, "GBPJPY", sig.Instrument)
	assert.Equal(t, models.DirectionShort, sig.Direction)
	assert.InDelta(t, 188.123, sig.EntryPrice, 1e-9)
}

func TestParseMalformedJSONRepaired(t *testing.T) {
	p := New("1H")

	// Trailing comma and unquoted key, the kind of template output the
	// platform produces.
	sig := p.Parse([]byte(`{ticker:"EURUSD", "action":"long", "close":1.1,}`))

	assert.Equal(t, "EURUSD", sig.Instrument)
	assert.Equal(t, models.DirectionLong, sig.Direction)
}

func TestParsePlaceholderGarbage(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`{"message":"{alert_message}"}`))

	assert.False(t, sig.Resolved())
	assert.Equal(t, models.Unresolved, sig.Instrument)
	assert.Equal(t, models.Unresolved, string(sig.Direction))
}

func TestParseEmptyBody(t *testing.T) {
	p := New("1H")

	sig := p.Parse(nil)

	assert.False(t, sig.Resolved())
	assert.Equal(t, "1H", sig.Timeframe)
	assert.False(t, sig.HasPrice)
}

func TestParseUnparseablePrice(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`{"ticker":"EURUSD","action":"long","close":"market"}`))

	assert.True(t, sig.Resolved())
	assert.False(t, sig.HasPrice)
}

func TestParseIndicatorPassThrough(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`{"ticker":"EURUSD","action":"long","close":1.1,"rsi":71.4,"adx":"28.0"}`))

	require.NotNil(t, sig.RSI)
	assert.InDelta(t, 71.4, *sig.RSI, 1e-9)
	require.NotNil(t, sig.ADX)
	assert.InDelta(t, 28.0, *sig.ADX, 1e-9)
}

func TestParseAlertTime(t *testing.T) {
	p := New("1H")

	sig := p.Parse([]byte(`{"ticker":"EURUSD","action":"long","close":1.1,"timenow":"2026-08-28T10:15:00Z"}`))

	require.False(t, sig.AlertTime.IsZero())
	assert.Equal(t, 2026, sig.AlertTime.Year())
}

func TestCleanSymbol(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"perp suffix", "btcusdt.p", "BTCUSDT"},
		{"cfd suffix", "GER30.C", "GER30"},
		{"internal spaces", "XAU USD", "XAUUSD"},
		{"already clean", "EURUSD", "EURUSD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanSymbol(tt.raw))
		})
	}
}
