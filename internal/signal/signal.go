// Package signal holds the pure detection rules applied to market data.
// Functions here take observed values (and, for crossover rules, the
// previously observed pair) and return the conditions that hold; they do
// not fetch data, render text, or touch shared state.
package signal

import "github.com/shopspring/decimal"

// Kind tags a detected condition. Kinds double as deduplication keys, one
// alert per (symbol, kind, calendar day).
type Kind string

const (
	KindRSIOversold    Kind = "rsi_oversold"
	KindRSIOverbought  Kind = "rsi_overbought"
	KindMACDBullish    Kind = "macd_bullish"
	KindMACDBearish    Kind = "macd_bearish"
	KindBBLower        Kind = "bb_lower"
	KindBBUpper        Kind = "bb_upper"
	KindGoldenCross    Kind = "golden_cross"
	KindDeathCross     Kind = "death_cross"
	KindNearSupport    Kind = "near_support"
	KindNearResistance Kind = "near_resistance"
	KindSentiment      Kind = "sentiment"
)

// MarketSymbol is the pseudo-symbol used for market-wide sentiment events.
const MarketSymbol = "MARKET"

// Sample carries the current readings for one symbol at one evaluation
// instant. A nil field means the provider returned no value for that
// indicator; nil is never treated as zero.
type Sample struct {
	Price      *decimal.Decimal
	RSI        *decimal.Decimal
	MACD       *decimal.Decimal
	MACDSignal *decimal.Decimal
	EMA50      *decimal.Decimal
	EMA200     *decimal.Decimal
	BBLower    *decimal.Decimal
	BBUpper    *decimal.Decimal
}

// MACDPair is one observed (MACD line, signal line) reading. Both values
// are always set together; a half-observed pair is never stored.
type MACDPair struct {
	MACD   decimal.Decimal
	Signal decimal.Decimal
}

// EMAPair is one observed (EMA-50, EMA-200) reading.
type EMAPair struct {
	Short decimal.Decimal
	Long  decimal.Decimal
}

// Event is one detected condition. Events are transient: they are gated by
// the dedup store and handed to the notifier, never retained.
type Event struct {
	Kind   Kind
	Symbol string
	Price  decimal.Decimal
	// Direction qualifies the event where the kind alone is ambiguous
	// (sentiment: "greed"/"fear").
	Direction string
	// Values holds the numbers that triggered the event, keyed by name
	// (rsi, macd, macd_signal, bb_lower, bb_upper, distance_pct,
	// change_pct, vix, vix_change_pct, ...). Consumed by the renderer.
	Values map[string]decimal.Decimal
}

// Thresholds parameterise the detection rules.
type Thresholds struct {
	RSIOversold   decimal.Decimal
	RSIOverbought decimal.Decimal
	ProximityPct  decimal.Decimal
	SentimentPct  decimal.Decimal
}

// DefaultThresholds returns the standard rule boundaries: RSI 30/70,
// support/resistance proximity 2%, sentiment move 1%.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSIOversold:   decimal.NewFromInt(30),
		RSIOverbought: decimal.NewFromInt(70),
		ProximityPct:  decimal.NewFromInt(2),
		SentimentPct:  decimal.NewFromInt(1),
	}
}

var hundred = decimal.NewFromInt(100)

// percentChange returns (current - previous) / previous * 100.
func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	return current.Sub(previous).Div(previous).Mul(hundred)
}
