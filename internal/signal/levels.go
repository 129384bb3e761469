package signal

import "github.com/shopspring/decimal"

// Levels evaluates support/resistance proximity from the current price and
// Bollinger bands. No history is involved. Support is checked first, so a
// symbol within the proximity threshold of both bands reports support
// only. The boundary is inclusive: a distance of exactly the threshold
// fires.
func Levels(symbol string, price, lower, upper decimal.Decimal, th Thresholds) (Event, bool) {
	distSupport := price.Sub(lower).Div(price).Mul(hundred)
	distResistance := upper.Sub(price).Div(price).Mul(hundred)

	base := map[string]decimal.Decimal{
		"bb_lower": lower,
		"bb_upper": upper,
	}

	switch {
	case distSupport.LessThanOrEqual(th.ProximityPct):
		base["distance_pct"] = distSupport
		return Event{
			Kind:   KindNearSupport,
			Symbol: symbol,
			Price:  price,
			Values: base,
		}, true
	case distResistance.LessThanOrEqual(th.ProximityPct):
		base["distance_pct"] = distResistance
		return Event{
			Kind:   KindNearResistance,
			Symbol: symbol,
			Price:  price,
			Values: base,
		}, true
	}

	return Event{}, false
}
