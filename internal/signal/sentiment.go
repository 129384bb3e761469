package signal

import "github.com/shopspring/decimal"

// SentimentInput carries the broad-market proxy quote and, optionally, a
// volatility-index quote. The VIX values enrich the event but never gate
// whether it fires.
type SentimentInput struct {
	Close        decimal.Decimal
	PrevClose    decimal.Decimal
	VIXClose     *decimal.Decimal
	VIXPrevClose *decimal.Decimal
}

// Sentiment evaluates the market-wide move. An absolute change of at least
// the sentiment threshold yields one event for the MARKET pseudo-symbol,
// classified "greed" on the way up and "fear" on the way down. Smaller
// moves yield nothing at all — there is no neutral event.
func Sentiment(in SentimentInput, th Thresholds) (Event, bool) {
	if in.PrevClose.IsZero() {
		return Event{}, false
	}

	changePct := percentChange(in.Close, in.PrevClose)
	if changePct.Abs().LessThan(th.SentimentPct) {
		return Event{}, false
	}

	direction := "greed"
	if changePct.IsNegative() {
		direction = "fear"
	}

	values := map[string]decimal.Decimal{
		"change_pct": changePct,
	}
	if in.VIXClose != nil {
		values["vix"] = *in.VIXClose
		if in.VIXPrevClose != nil && !in.VIXPrevClose.IsZero() {
			values["vix_change_pct"] = percentChange(*in.VIXClose, *in.VIXPrevClose)
		}
	}

	return Event{
		Kind:      KindSentiment,
		Symbol:    MarketSymbol,
		Price:     in.Close,
		Direction: direction,
		Values:    values,
	}, true
}
