package risk

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"signalbot/internal/instrument"
	"signalbot/models"
)

var (
	// ErrInvalidEntry means the entry price is missing or non-positive, so no
	// level can be derived.
	ErrInvalidEntry = errors.New("invalid entry price")
	// ErrZeroStop means the computed stop distance collapsed to zero and a
	// position size would divide by it.
	ErrZeroStop = errors.New("zero stop distance")
)

// Volatility multipliers widen stops for categories that move faster than
// their base unit suggests.
var volatilityMultiplier = map[models.InstrumentCategory]float64{
	models.CategoryForex:       1.0,
	models.CategoryIndices:     1.0,
	models.CategoryCommodities: 1.0,
	models.CategoryCrypto:      2.0,
}

// Sizing holds the account model used for position sizing. These are
// configuration, injected once at startup so tests can swap risk tables.
type Sizing struct {
	AccountBalance float64
	RiskPercent    float64
	MinLotSize     float64
	MaxLotSize     float64
}

// Calculator derives stop-loss, take-profit and position-size levels from a
// canonical signal.
type Calculator struct {
	sizing Sizing
	logger zerolog.Logger
}

// NewCalculator creates a calculator with the given account sizing model.
func NewCalculator(sizing Sizing) *Calculator {
	return &Calculator{
		sizing: sizing,
		logger: log.With().Str("component", "risk_calculator").Logger(),
	}
}

// Calculate computes risk parameters for an entry signal. SHORT is the mirror
// image of LONG. A non-positive entry price or a degenerate stop distance
// short-circuits with an error instead of producing NaN levels.
func (c *Calculator) Calculate(sig *models.Signal) (*models.RiskParameters, error) {
	if !sig.HasPrice || sig.EntryPrice <= 0 {
		return nil, ErrInvalidEntry
	}

	profile := ProfileFor(sig.Timeframe)
	stopDistance := c.stopDistance(sig, profile)
	if stopDistance <= 0 {
		return nil, ErrZeroStop
	}

	dir := 1.0
	if sig.Direction == models.DirectionShort {
		dir = -1.0
	}

	params := &models.RiskParameters{
		StopLoss:     sig.EntryPrice - dir*stopDistance,
		StopDistance: stopDistance,
		RiskReward:   profile.Ratios[len(profile.Ratios)-1],
		PositionSize: c.positionSize(stopDistance),
	}
	for i, ratio := range profile.Ratios {
		params.TakeProfits = append(params.TakeProfits, models.TakeProfit{
			Level: i + 1,
			Price: sig.EntryPrice + dir*stopDistance*ratio,
			Ratio: ratio,
		})
	}

	c.logger.Debug().
		Str("instrument", sig.Instrument).
		Str("timeframe", sig.Timeframe).
		Float64("entry", sig.EntryPrice).
		Float64("stop_distance", stopDistance).
		Float64("stop_loss", params.StopLoss).
		Msg("Computed risk parameters")

	return params, nil
}

// stopDistance picks the distance unit by category: pips for forex (symbol
// aware, JPY quotes use 0.01), raw points for indices, and a percentage of
// entry for commodities and crypto.
func (c *Calculator) stopDistance(sig *models.Signal, profile Profile) float64 {
	mult := volatilityMultiplier[sig.Category]
	if mult == 0 {
		mult = 1.0
	}

	switch sig.Category {
	case models.CategoryForex:
		pip := 0.0001
		if instrument.IsJPYQuoted(sig.Instrument) {
			pip = 0.01
		}
		return profile.StopPips * pip * mult
	case models.CategoryIndices:
		return profile.StopPips * mult
	default:
		return sig.EntryPrice * profile.StopPercent / 100 * mult
	}
}

// positionSize applies the fixed-fractional model: risk amount divided by the
// stop distance, clamped to the configured lot bounds.
func (c *Calculator) positionSize(stopDistance float64) float64 {
	if c.sizing.AccountBalance <= 0 || c.sizing.RiskPercent <= 0 {
		return c.sizing.MinLotSize
	}

	riskAmount := c.sizing.AccountBalance * c.sizing.RiskPercent / 100
	size := riskAmount / stopDistance

	if c.sizing.MinLotSize > 0 && size < c.sizing.MinLotSize {
		size = c.sizing.MinLotSize
	}
	if c.sizing.MaxLotSize > 0 && size > c.sizing.MaxLotSize {
		size = c.sizing.MaxLotSize
	}
	return size
}
