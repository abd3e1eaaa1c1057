package models

import (
	"time"
)

// Unresolved marks a field no extraction tier could fill.
const Unresolved = "N/A"

// InstrumentCategory selects distance units and formatting rules.
type InstrumentCategory string

const (
	CategoryForex       InstrumentCategory = "FOREX"
	CategoryIndices     InstrumentCategory = "INDICES"
	CategoryCommodities InstrumentCategory = "COMMODITIES"
	CategoryCrypto      InstrumentCategory = "CRYPTO"
)

// Direction of an entry signal. Exit signals keep the direction of the
// position being closed when it can be inferred.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Signal is the canonical form of one inbound alert. It is built once by the
// parser and never mutated afterwards.
type Signal struct {
	ID         string             `json:"id"`
	Instrument string             `json:"instrument"`
	Category   InstrumentCategory `json:"instrument_category"`
	Direction  Direction          `json:"direction"`
	IsExit     bool               `json:"is_exit"`
	EntryPrice float64            `json:"entry_price"`
	HasPrice   bool               `json:"has_price"`
	Timeframe  string             `json:"timeframe"`
	RawAction  string             `json:"raw_action"`
	ReceivedAt time.Time          `json:"received_at"`

	// AlertTime is the bar time declared by the alerting platform, when the
	// payload carried one. Zero means not declared.
	AlertTime time.Time `json:"alert_time,omitempty"`

	// Pass-through indicator values. Accepted from the payload for the
	// validator's soft checks, never computed here.
	RSI *float64 `json:"rsi,omitempty"`
	ADX *float64 `json:"adx,omitempty"`
}

// Resolved reports whether the required fields survived extraction. An exit
// signal is relayable without a direction (generic EXIT); an entry is not.
func (s *Signal) Resolved() bool {
	if s.Instrument == Unresolved || s.Instrument == "" {
		return false
	}
	if s.IsExit {
		return true
	}
	return string(s.Direction) != Unresolved && s.Direction != ""
}

// TakeProfit is one target level with its risk/reward ratio.
type TakeProfit struct {
	Level int     `json:"level"`
	Price float64 `json:"price"`
	Ratio float64 `json:"ratio"`
}

// RiskParameters are derived per signal and never persisted.
type RiskParameters struct {
	StopLoss     float64      `json:"stop_loss"`
	StopDistance float64      `json:"stop_distance"`
	TakeProfits  []TakeProfit `json:"take_profit_levels"`
	RiskReward   float64      `json:"risk_reward_ratio"`
	PositionSize float64      `json:"position_size"`
}

// ValidationResult is the validator's structured verdict. Rejection never
// raises; the caller decides whether to notify.
type ValidationResult struct {
	IsValid    bool     `json:"is_valid"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}
