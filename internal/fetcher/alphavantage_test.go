package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func newTestClient(srv *httptest.Server) *AlphaVantage {
	return NewAlphaVantage(AlphaVantageOptions{
		BaseURL: srv.URL,
		APIKey:  "test",
		Timeout: time.Second,
	}, zerolog.Nop())
}

func TestFetchQuoteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Fatalf("unexpected function %q", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test" {
			t.Fatalf("api key not forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Global Quote": {
				"01. symbol": "NVDA",
				"02. open": "128.00",
				"03. high": "131.40",
				"04. low": "127.10",
				"05. price": "130.25",
				"08. previous close": "129.00"
			}
		}`))
	}))
	defer srv.Close()

	quote, err := newTestClient(srv).FetchQuote(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Price.Equal(decimal.RequireFromString("130.25")) {
		t.Fatalf("unexpected price %s", quote.Price)
	}
	if !quote.PreviousClose.Equal(decimal.RequireFromString("129.00")) {
		t.Fatalf("unexpected previous close %s", quote.PreviousClose)
	}
	if quote.High == nil || !quote.High.Equal(decimal.RequireFromString("131.40")) {
		t.Fatal("expected high to be populated")
	}
}

func TestFetchQuoteRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note": "API call frequency is 25 requests per day"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchQuote(context.Background(), "NVDA")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestFetchQuoteInvalidSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error Message": "Invalid API call"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchQuote(context.Background(), "NOPE")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFetchRSIPicksLatestEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("time_period"); got != "14" {
			t.Fatalf("expected RSI(14), got period %q", got)
		}
		_, _ = w.Write([]byte(`{
			"Technical Analysis: RSI": {
				"2026-08-26": {"RSI": "45.0"},
				"2026-08-27": {"RSI": "28.5"},
				"2026-08-25": {"RSI": "52.1"}
			}
		}`))
	}))
	defer srv.Close()

	rsi, err := newTestClient(srv).FetchRSI(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rsi.Equal(decimal.RequireFromString("28.5")) {
		t.Fatalf("expected latest RSI 28.5, got %s", rsi)
	}
}

func TestFetchMACD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"Technical Analysis: MACD": {
				"2026-08-27": {"MACD": "0.1000", "MACD_Signal": "-0.1000", "MACD_Hist": "0.2000"}
			}
		}`))
	}))
	defer srv.Close()

	value, err := newTestClient(srv).FetchMACD(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.MACD.Equal(decimal.RequireFromString("0.1")) {
		t.Fatalf("unexpected MACD %s", value.MACD)
	}
	if !value.Signal.Equal(decimal.RequireFromString("-0.1")) {
		t.Fatalf("unexpected signal %s", value.Signal)
	}
}

func TestFetchEMAUsesRequestedPeriod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("time_period"); got != "200" {
			t.Fatalf("expected period 200, got %q", got)
		}
		_, _ = w.Write([]byte(`{"Technical Analysis: EMA": {"2026-08-27": {"EMA": "101.5"}}}`))
	}))
	defer srv.Close()

	ema, err := newTestClient(srv).FetchEMA(context.Background(), "NVDA", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ema.Equal(decimal.RequireFromString("101.5")) {
		t.Fatalf("unexpected EMA %s", ema)
	}
}

func TestFetchBBands(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"Technical Analysis: BBANDS": {
				"2026-08-27": {"Real Upper Band": "120.0", "Real Middle Band": "109.0", "Real Lower Band": "98.0"}
			}
		}`))
	}))
	defer srv.Close()

	bands, err := newTestClient(srv).FetchBBands(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bands.Lower.Equal(decimal.RequireFromString("98")) || !bands.Upper.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("unexpected bands (%s, %s)", bands.Lower, bands.Upper)
	}
}

func TestFetchEmptySeriesIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Technical Analysis: RSI": {}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchRSI(context.Background(), "NVDA")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).FetchQuote(context.Background(), "NVDA"); err == nil {
		t.Fatal("HTTP 503 must return an error")
	}
}
