package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"signalbot/internal/risk"
	"signalbot/models"
)

// Validator rejects stale, duplicate and low-confidence signals. It owns the
// only shared mutable state in the pipeline: a content-hash history guarded
// by a mutex, pruned past the retention window so it stays bounded.
type Validator struct {
	mu       sync.Mutex
	history  map[string]time.Time
	cooldown time.Duration
	retain   time.Duration
	logger   zerolog.Logger

	now func() time.Time
}

// New creates a validator with the given duplicate cooldown and history
// retention windows.
func New(cooldown, retain time.Duration) *Validator {
	return &Validator{
		history:  make(map[string]time.Time),
		cooldown: cooldown,
		retain:   retain,
		logger:   log.With().Str("component", "validator").Logger(),
		now:      time.Now,
	}
}

// Check runs every validation rule against the signal. Rejection never
// raises; the structured result tells the caller whether to notify.
func (v *Validator) Check(sig *models.Signal) *models.ValidationResult {
	result := &models.ValidationResult{IsValid: true, Confidence: 1.0}
	profile := risk.ProfileFor(sig.Timeframe)

	if !sig.AlertTime.IsZero() {
		if age := v.now().Sub(sig.AlertTime); age > profile.Validity {
			result.IsValid = false
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("signal expired: %s old, %s validity for %s", age.Round(time.Second), profile.Validity, sig.Timeframe))
		}
	}

	v.softChecks(sig, result)

	if result.Confidence < profile.MinConfidence {
		result.IsValid = false
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("confidence %.2f below %.2f threshold", result.Confidence, profile.MinConfidence))
	}

	// Duplicate check runs last so a rejected signal does not poison the
	// history for a later valid retry.
	if result.IsValid && v.isDuplicate(sig) {
		result.IsValid = false
		result.Reasons = append(result.Reasons, "duplicate signal within cooldown window")
	}

	if !result.IsValid {
		v.logger.Debug().
			Str("signal_id", sig.ID).
			Strs("reasons", result.Reasons).
			Msg("Signal rejected")
	}

	return result
}

// softChecks reduce the confidence score multiplicatively without rejecting
// outright.
func (v *Validator) softChecks(sig *models.Signal, result *models.ValidationResult) {
	scale := func(factor float64, warning string) {
		result.Confidence *= factor
		result.Warnings = append(result.Warnings, warning)
	}

	// Sub-5-minute charts are noise for slow-moving instruments.
	if (sig.Timeframe == "1m" || sig.Timeframe == "3m") &&
		(sig.Category == models.CategoryIndices || sig.Category == models.CategoryCrypto) {
		scale(0.85, fmt.Sprintf("%s timeframe is unreliable for %s", sig.Timeframe, sig.Category))
	}

	// Price-band extremity: a forex quote far outside the usual band points
	// at a mislabeled instrument.
	if sig.Category == models.CategoryForex && sig.HasPrice &&
		(sig.EntryPrice > 1000 || sig.EntryPrice < 0.0001) {
		scale(0.5, "entry price outside typical forex band")
	}

	// Pass-through momentum extremes: entries into overextended moves.
	if sig.RSI != nil && (*sig.RSI > 85 || *sig.RSI < 15) {
		scale(0.8, fmt.Sprintf("RSI %.1f is overextended", *sig.RSI))
	}
	if sig.ADX != nil && *sig.ADX < 15 {
		scale(0.9, fmt.Sprintf("ADX %.1f signals a trendless market", *sig.ADX))
	}
}

// isDuplicate is a check-and-insert over the content hash: the first caller
// within the cooldown window claims the hash, later ones are duplicates.
func (v *Validator) isDuplicate(sig *models.Signal) bool {
	hash := ContentHash(sig)
	now := v.now()

	v.mu.Lock()
	defer v.mu.Unlock()

	for h, ts := range v.history {
		if now.Sub(ts) > v.retain {
			delete(v.history, h)
		}
	}

	if ts, ok := v.history[hash]; ok && now.Sub(ts) < v.cooldown {
		return true
	}
	v.history[hash] = now
	return false
}

// ContentHash keys the de-duplication history on what makes a signal
// distinct: instrument, direction and price.
func ContentHash(sig *models.Signal) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%t|%.5f",
		sig.Instrument, sig.Direction, sig.IsExit, sig.EntryPrice)))
	return hex.EncodeToString(sum[:])
}
