package alerting

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"stock-signal-alerts/internal/signal"
)

func vals(pairs ...any) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i].(string)] = decimal.RequireFromString(pairs[i+1].(string))
	}
	return m
}

func TestRenderRSIOversold(t *testing.T) {
	msg := Render(signal.Event{
		Kind:   signal.KindRSIOversold,
		Symbol: "NVDA",
		Price:  decimal.RequireFromString("130.25"),
		Values: vals("rsi", "28.5"),
	})
	for _, want := range []string{"NVDA", "28.5", "130.25", "oversold"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestRenderMACDBullish(t *testing.T) {
	msg := Render(signal.Event{
		Kind:   signal.KindMACDBullish,
		Symbol: "MSFT",
		Price:  decimal.RequireFromString("410"),
		Values: vals("macd", "0.1", "macd_signal", "-0.1"),
	})
	for _, want := range []string{"MSFT", "bullish", "0.1", "-0.1"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestRenderSentimentGreedWithVIX(t *testing.T) {
	msg := Render(signal.Event{
		Kind:      signal.KindSentiment,
		Symbol:    signal.MarketSymbol,
		Price:     decimal.RequireFromString("552.10"),
		Direction: "greed",
		Values:    vals("change_pct", "1.42", "vix", "13.80", "vix_change_pct", "-3.10"),
	})
	for _, want := range []string{"GREED", "1.42", "13.80", "-3.10"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestRenderSentimentFearWithoutVIX(t *testing.T) {
	msg := Render(signal.Event{
		Kind:      signal.KindSentiment,
		Symbol:    signal.MarketSymbol,
		Price:     decimal.RequireFromString("540"),
		Direction: "fear",
		Values:    vals("change_pct", "-2.05"),
	})
	if !strings.Contains(msg, "FEAR") || !strings.Contains(msg, "-2.05") {
		t.Fatalf("unexpected message %q", msg)
	}
	if strings.Contains(msg, "VIX") {
		t.Fatalf("VIX must be omitted when absent, got %q", msg)
	}
}

func TestRenderNearSupport(t *testing.T) {
	msg := Render(signal.Event{
		Kind:   signal.KindNearSupport,
		Symbol: "AMZN",
		Price:  decimal.RequireFromString("100"),
		Values: vals("distance_pct", "1.5", "bb_lower", "98.50"),
	})
	for _, want := range []string{"AMZN", "support", "1.5", "98.5"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestRenderMissingValueIsNA(t *testing.T) {
	msg := Render(signal.Event{
		Kind:   signal.KindRSIOverbought,
		Symbol: "V",
		Price:  decimal.RequireFromString("280"),
	})
	if !strings.Contains(msg, "n/a") {
		t.Fatalf("expected n/a placeholder, got %q", msg)
	}
}
