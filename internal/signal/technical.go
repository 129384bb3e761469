package signal

import "github.com/shopspring/decimal"

// Technical evaluates the per-symbol technical rules against the current
// sample. Crossover rules additionally need the previously observed pair;
// a nil prior pair means no crossover is decidable this cycle, which is
// not an error. Rules are independent: one call may return zero, one, or
// several events.
//
// Updating the stored pairs with the fresh sample is the caller's
// responsibility and must happen whether or not any event fired.
func Technical(symbol string, s Sample, prevMACD *MACDPair, prevEMA *EMAPair, th Thresholds) []Event {
	if s.Price == nil {
		return nil
	}
	price := *s.Price

	var events []Event

	// RSI extremes. Boundary values produce no alert: strictly below
	// oversold, strictly above overbought.
	if s.RSI != nil {
		rsi := *s.RSI
		switch {
		case rsi.LessThan(th.RSIOversold):
			events = append(events, Event{
				Kind:   KindRSIOversold,
				Symbol: symbol,
				Price:  price,
				Values: valuesWithBands(s, "rsi", rsi),
			})
		case rsi.GreaterThan(th.RSIOverbought):
			events = append(events, Event{
				Kind:   KindRSIOverbought,
				Symbol: symbol,
				Price:  price,
				Values: valuesWithBands(s, "rsi", rsi),
			})
		}
	}

	// MACD crossover. Equality on the prior pair counts as "was at or
	// below", so a touch-then-separate sequence still registers.
	if s.MACD != nil && s.MACDSignal != nil && prevMACD != nil {
		macd, sig := *s.MACD, *s.MACDSignal
		switch {
		case prevMACD.MACD.LessThanOrEqual(prevMACD.Signal) && macd.GreaterThan(sig):
			events = append(events, Event{
				Kind:      KindMACDBullish,
				Symbol:    symbol,
				Price:     price,
				Direction: "bullish",
				Values:    macdValues(macd, sig, *prevMACD),
			})
		case prevMACD.MACD.GreaterThanOrEqual(prevMACD.Signal) && macd.LessThan(sig):
			events = append(events, Event{
				Kind:      KindMACDBearish,
				Symbol:    symbol,
				Price:     price,
				Direction: "bearish",
				Values:    macdValues(macd, sig, *prevMACD),
			})
		}
	}

	// Bollinger breach. Lower band takes precedence when the band is
	// degenerate enough for both to hold.
	if s.BBLower != nil && s.BBUpper != nil {
		switch {
		case price.LessThanOrEqual(*s.BBLower):
			events = append(events, Event{
				Kind:   KindBBLower,
				Symbol: symbol,
				Price:  price,
				Values: bandValues(*s.BBLower, *s.BBUpper),
			})
		case price.GreaterThanOrEqual(*s.BBUpper):
			events = append(events, Event{
				Kind:   KindBBUpper,
				Symbol: symbol,
				Price:  price,
				Values: bandValues(*s.BBLower, *s.BBUpper),
			})
		}
	}

	// Golden / death cross on the EMA-50/EMA-200 pair.
	if s.EMA50 != nil && s.EMA200 != nil && prevEMA != nil {
		short, long := *s.EMA50, *s.EMA200
		switch {
		case prevEMA.Short.LessThanOrEqual(prevEMA.Long) && short.GreaterThan(long):
			events = append(events, Event{
				Kind:      KindGoldenCross,
				Symbol:    symbol,
				Price:     price,
				Direction: "bullish",
				Values:    emaValues(short, long),
			})
		case prevEMA.Short.GreaterThanOrEqual(prevEMA.Long) && short.LessThan(long):
			events = append(events, Event{
				Kind:      KindDeathCross,
				Symbol:    symbol,
				Price:     price,
				Direction: "bearish",
				Values:    emaValues(short, long),
			})
		}
	}

	return events
}

func valuesWithBands(s Sample, name string, v decimal.Decimal) map[string]decimal.Decimal {
	values := map[string]decimal.Decimal{name: v}
	if s.BBLower != nil {
		values["bb_lower"] = *s.BBLower
	}
	if s.BBUpper != nil {
		values["bb_upper"] = *s.BBUpper
	}
	return values
}

func macdValues(macd, sig decimal.Decimal, prev MACDPair) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"macd":             macd,
		"macd_signal":      sig,
		"prev_macd":        prev.MACD,
		"prev_macd_signal": prev.Signal,
	}
}

func bandValues(lower, upper decimal.Decimal) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"bb_lower": lower,
		"bb_upper": upper,
	}
}

func emaValues(short, long decimal.Decimal) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"ema_50":  short,
		"ema_200": long,
	}
}
