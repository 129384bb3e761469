package signal

import "testing"

func TestSentimentFearOnTwoPercentDrop(t *testing.T) {
	in := SentimentInput{Close: dec("490"), PrevClose: dec("500")}
	ev, ok := Sentiment(in, DefaultThresholds())
	if !ok {
		t.Fatal("a -2% move must fire")
	}
	if ev.Kind != KindSentiment || ev.Symbol != MarketSymbol {
		t.Fatalf("unexpected event %s/%s", ev.Kind, ev.Symbol)
	}
	if ev.Direction != "fear" {
		t.Fatalf("expected fear, got %s", ev.Direction)
	}
	if got := ev.Values["change_pct"]; !got.Equal(dec("-2")) {
		t.Fatalf("expected change_pct=-2, got %s", got)
	}
}

func TestSentimentNoAlertBelowThreshold(t *testing.T) {
	in := SentimentInput{Close: dec("503"), PrevClose: dec("500")}
	if _, ok := Sentiment(in, DefaultThresholds()); ok {
		t.Fatal("a +0.6% move must not fire")
	}
}

func TestSentimentGreedBoundaryInclusive(t *testing.T) {
	in := SentimentInput{Close: dec("505"), PrevClose: dec("500")}
	ev, ok := Sentiment(in, DefaultThresholds())
	if !ok {
		t.Fatal("a move of exactly +1% must fire")
	}
	if ev.Direction != "greed" {
		t.Fatalf("expected greed, got %s", ev.Direction)
	}
}

func TestSentimentIncludesVIXWhenAvailable(t *testing.T) {
	in := SentimentInput{
		Close:        dec("490"),
		PrevClose:    dec("500"),
		VIXClose:     decp("22"),
		VIXPrevClose: decp("20"),
	}
	ev, ok := Sentiment(in, DefaultThresholds())
	if !ok {
		t.Fatal("expected event")
	}
	if got := ev.Values["vix"]; !got.Equal(dec("22")) {
		t.Fatalf("expected vix=22, got %s", got)
	}
	if got := ev.Values["vix_change_pct"]; !got.Equal(dec("10")) {
		t.Fatalf("expected vix_change_pct=10, got %s", got)
	}
}

func TestSentimentZeroPrevClose(t *testing.T) {
	in := SentimentInput{Close: dec("500"), PrevClose: dec("0")}
	if _, ok := Sentiment(in, DefaultThresholds()); ok {
		t.Fatal("zero previous close must not fire")
	}
}
