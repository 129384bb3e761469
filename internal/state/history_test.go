package state

import (
	"testing"

	"github.com/shopspring/decimal"

	"stock-signal-alerts/internal/signal"
)

func TestHistoryStoreMissBeforeFirstWrite(t *testing.T) {
	h := NewHistoryStore()
	if _, ok := h.MACD("NVDA"); ok {
		t.Fatal("expected no MACD history before the first write")
	}
	if _, ok := h.EMA("NVDA"); ok {
		t.Fatal("expected no EMA history before the first write")
	}
	if h.Symbols() != 0 {
		t.Fatalf("expected empty store, got %d symbols", h.Symbols())
	}
}

func TestHistoryStoreOverwrite(t *testing.T) {
	h := NewHistoryStore()

	h.SetMACD("NVDA", signal.MACDPair{
		MACD:   decimal.NewFromFloat(-0.5),
		Signal: decimal.NewFromFloat(-0.2),
	})
	h.SetMACD("NVDA", signal.MACDPair{
		MACD:   decimal.NewFromFloat(0.1),
		Signal: decimal.NewFromFloat(-0.1),
	})

	pair, ok := h.MACD("NVDA")
	if !ok {
		t.Fatal("expected stored pair")
	}
	if !pair.MACD.Equal(decimal.NewFromFloat(0.1)) || !pair.Signal.Equal(decimal.NewFromFloat(-0.1)) {
		t.Fatalf("expected latest pair to win, got (%s, %s)", pair.MACD, pair.Signal)
	}
}

func TestHistoryStoreTracksPairsPerSymbol(t *testing.T) {
	h := NewHistoryStore()

	h.SetMACD("NVDA", signal.MACDPair{MACD: decimal.NewFromInt(1), Signal: decimal.NewFromInt(2)})
	h.SetEMA("MSFT", signal.EMAPair{Short: decimal.NewFromInt(101), Long: decimal.NewFromInt(100)})

	if _, ok := h.MACD("MSFT"); ok {
		t.Fatal("MACD history must be independent per symbol")
	}
	if _, ok := h.EMA("NVDA"); ok {
		t.Fatal("EMA history must be independent of MACD history")
	}
	if h.Symbols() != 2 {
		t.Fatalf("expected 2 tracked symbols, got %d", h.Symbols())
	}
}
