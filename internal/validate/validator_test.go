package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"signalbot/models"
)

func validSignal() *models.Signal {
	return &models.Signal{
		ID:         "test",
		Instrument: "EURUSD",
		Category:   models.CategoryForex,
		Direction:  models.DirectionLong,
		EntryPrice: 1.09876,
		HasPrice:   true,
		Timeframe:  "1H",
		ReceivedAt: time.Now().UTC(),
	}
}

func TestCheckAcceptsCleanSignal(t *testing.T) {
	v := New(5*time.Minute, 24*time.Hour)

	result := v.Check(validSignal())

	assert.True(t, result.IsValid)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Empty(t, result.Reasons)
}

func TestCheckDuplicateWithinCooldown(t *testing.T) {
	v := New(5*time.Minute, 24*time.Hour)
	now := time.Now()
	v.now = func() time.Time { return now }

	first := v.Check(validSignal())
	assert.True(t, first.IsValid)

	second := v.Check(validSignal())
	assert.False(t, second.IsValid)
	assert.Contains(t, second.Reasons[0], "duplicate")

	// After the cooldown the same content is accepted again.
	now = now.Add(6 * time.Minute)
	third := v.Check(validSignal())
	assert.True(t, third.IsValid)
}

func TestCheckDifferentPriceIsNotDuplicate(t *testing.T) {
	v := New(5*time.Minute, 24*time.Hour)

	assert.True(t, v.Check(validSignal()).IsValid)

	other := validSignal()
	other.EntryPrice = 1.10000
	assert.True(t, v.Check(other).IsValid)
}

func TestCheckHistoryPruned(t *testing.T) {
	v := New(5*time.Minute, time.Hour)
	now := time.Now()
	v.now = func() time.Time { return now }

	v.Check(validSignal())
	assert.Len(t, v.history, 1)

	now = now.Add(2 * time.Hour)
	other := validSignal()
	other.Instrument = "GBPUSD"
	v.Check(other)
	assert.Len(t, v.history, 1, "expired entry should be pruned")
}

func TestCheckExpiredAlertTime(t *testing.T) {
	v := New(5*time.Minute, 24*time.Hour)

	sig := validSignal()
	sig.Timeframe = "5m" // 1h validity
	sig.AlertTime = time.Now().Add(-3 * time.Hour)

	result := v.Check(sig)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Reasons[0], "expired")
}

func TestCheckLowConfidenceRejected(t *testing.T) {
	v := New(5*time.Minute, 24*time.Hour)

	sig := validSignal()
	sig.Timeframe = "1m" // min confidence 0.90
	sig.Category = models.CategoryCrypto
	rsi := 95.0
	sig.RSI = &rsi

	// 0.85 * 0.8 = 0.68, well below the 1m threshold.
	result := v.Check(sig)
	assert.False(t, result.IsValid)
	assert.InDelta(t, 0.68, result.Confidence, 1e-9)
	assert.NotEmpty(t, result.Warnings)
}

func TestCheckSoftWarningsKeepValidity(t *testing.T) {
	v := New(5*time.Minute, 24*time.Hour)

	sig := validSignal()
	adx := 12.0
	sig.ADX = &adx

	// 0.9 stays above the 1H threshold of 0.65.
	result := v.Check(sig)
	assert.True(t, result.IsValid)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.Len(t, result.Warnings, 1)
}

func TestCheckForexPriceBand(t *testing.T) {
	v := New(5*time.Minute, 24*time.Hour)

	sig := validSignal()
	sig.EntryPrice = 18500 // an index price on a forex-classified symbol

	result := v.Check(sig)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Warnings[0], "forex band")
}

func TestContentHashStable(t *testing.T) {
	a, b := validSignal(), validSignal()
	b.ID = "other"
	b.ReceivedAt = b.ReceivedAt.Add(time.Minute)

	assert.Equal(t, ContentHash(a), ContentHash(b))

	b.Direction = models.DirectionShort
	assert.NotEqual(t, ContentHash(a), ContentHash(b))
}

func TestCheckRejectedSignalDoesNotClaimHash(t *testing.T) {
	v := New(5*time.Minute, 24*time.Hour)

	expired := validSignal()
	expired.AlertTime = time.Now().Add(-48 * time.Hour)
	assert.False(t, v.Check(expired).IsValid)

	// The expired attempt must not block the fresh retry.
	assert.True(t, v.Check(validSignal()).IsValid)
}
