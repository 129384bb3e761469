package alerting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stock-signal-alerts/internal/signal"
)

// Render turns a detected event into the message text handed to the
// notifier. One event, one message; batching is the caller's concern.
func Render(ev signal.Event) string {
	price := ev.Price.StringFixed(2)

	switch ev.Kind {
	case signal.KindRSIOversold:
		return fmt.Sprintf("📉 %s RSI oversold: RSI %s at $%s. Potential buying opportunity.",
			ev.Symbol, value(ev, "rsi"), price)
	case signal.KindRSIOverbought:
		return fmt.Sprintf("📈 %s RSI overbought: RSI %s at $%s. Consider taking profits.",
			ev.Symbol, value(ev, "rsi"), price)
	case signal.KindMACDBullish:
		return fmt.Sprintf("🟢 %s MACD bullish crossover at $%s (MACD %s crossed above signal %s).",
			ev.Symbol, price, value(ev, "macd"), value(ev, "macd_signal"))
	case signal.KindMACDBearish:
		return fmt.Sprintf("🔴 %s MACD bearish crossover at $%s (MACD %s crossed below signal %s).",
			ev.Symbol, price, value(ev, "macd"), value(ev, "macd_signal"))
	case signal.KindBBLower:
		return fmt.Sprintf("⬇️ %s broke below the lower Bollinger band: $%s <= %s.",
			ev.Symbol, price, value(ev, "bb_lower"))
	case signal.KindBBUpper:
		return fmt.Sprintf("⬆️ %s broke above the upper Bollinger band: $%s >= %s.",
			ev.Symbol, price, value(ev, "bb_upper"))
	case signal.KindGoldenCross:
		return fmt.Sprintf("✨ %s golden cross at $%s: EMA50 %s crossed above EMA200 %s.",
			ev.Symbol, price, value(ev, "ema_50"), value(ev, "ema_200"))
	case signal.KindDeathCross:
		return fmt.Sprintf("💀 %s death cross at $%s: EMA50 %s crossed below EMA200 %s.",
			ev.Symbol, price, value(ev, "ema_50"), value(ev, "ema_200"))
	case signal.KindNearSupport:
		return fmt.Sprintf("🛟 %s near support: $%s is %s%% above the lower band %s.",
			ev.Symbol, price, value(ev, "distance_pct"), value(ev, "bb_lower"))
	case signal.KindNearResistance:
		return fmt.Sprintf("🧱 %s near resistance: $%s is %s%% below the upper band %s.",
			ev.Symbol, price, value(ev, "distance_pct"), value(ev, "bb_upper"))
	case signal.KindSentiment:
		return renderSentiment(ev)
	}

	// Unknown kinds still produce something legible.
	return fmt.Sprintf("%s alert for %s at $%s", ev.Kind, ev.Symbol, price)
}

func renderSentiment(ev signal.Event) string {
	var b strings.Builder

	change := value(ev, "change_pct")
	switch ev.Direction {
	case "greed":
		fmt.Fprintf(&b, "🤑 Market sentiment: GREED. Proxy moved %s%% to $%s.",
			change, ev.Price.StringFixed(2))
	case "fear":
		fmt.Fprintf(&b, "😨 Market sentiment: FEAR. Proxy moved %s%% to $%s.",
			change, ev.Price.StringFixed(2))
	default:
		fmt.Fprintf(&b, "Market sentiment shift: proxy moved %s%%.", change)
	}

	if vix, ok := ev.Values["vix"]; ok {
		fmt.Fprintf(&b, " VIX %s", vix.StringFixed(2))
		if vc, ok := ev.Values["vix_change_pct"]; ok {
			fmt.Fprintf(&b, " (%s%%)", vc.StringFixed(2))
		}
		b.WriteString(".")
	}

	return b.String()
}

func value(ev signal.Event, key string) string {
	v, ok := ev.Values[key]
	if !ok {
		return "n/a"
	}
	return trimZeros(v)
}

// trimZeros prints at most two decimal places, dropping a trailing ".00".
func trimZeros(d decimal.Decimal) string {
	s := d.StringFixed(2)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
