package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const queryPath = "/query"

// AlphaVantageOptions parameterise the Alpha Vantage client.
type AlphaVantageOptions struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
}

// AlphaVantage fetches quotes and indicator series from the Alpha Vantage
// REST API. It implements both QuoteFetcher and IndicatorFetcher.
type AlphaVantage struct {
	opts    AlphaVantageOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewAlphaVantage constructs an Alpha Vantage client.
func NewAlphaVantage(opts AlphaVantageOptions, logger zerolog.Logger) *AlphaVantage {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}

	return &AlphaVantage{
		opts:    opts,
		logger:  logger.With().Str("component", "alphavantage").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type apiStatus struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (s apiStatus) err() error {
	switch {
	case s.Note != "":
		return fmt.Errorf("%w: %s", ErrRateLimited, s.Note)
	case s.ErrorMessage != "":
		return fmt.Errorf("%w: %s", ErrNoData, s.ErrorMessage)
	case s.Information != "":
		return fmt.Errorf("%w: %s", ErrNoData, s.Information)
	}
	return nil
}

// FetchQuote retrieves the GLOBAL_QUOTE endpoint for a symbol.
func (a *AlphaVantage) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	var payload struct {
		apiStatus
		Quote struct {
			Symbol        string `json:"01. symbol"`
			Open          string `json:"02. open"`
			High          string `json:"03. high"`
			Low           string `json:"04. low"`
			Price         string `json:"05. price"`
			PreviousClose string `json:"08. previous close"`
		} `json:"Global Quote"`
	}
	if err := a.get(ctx, params, &payload); err != nil {
		return Quote{}, err
	}
	if err := payload.apiStatus.err(); err != nil {
		return Quote{}, err
	}
	if payload.Quote.Price == "" {
		return Quote{}, fmt.Errorf("%w: empty quote for %s", ErrNoData, symbol)
	}

	price, err := decimal.NewFromString(payload.Quote.Price)
	if err != nil {
		return Quote{}, fmt.Errorf("parse price: %w", err)
	}
	prevClose := price
	if payload.Quote.PreviousClose != "" {
		prevClose, err = decimal.NewFromString(payload.Quote.PreviousClose)
		if err != nil {
			return Quote{}, fmt.Errorf("parse previous close: %w", err)
		}
	}

	quote := Quote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: prevClose,
	}
	quote.Open = parseOptional(payload.Quote.Open)
	quote.High = parseOptional(payload.Quote.High)
	quote.Low = parseOptional(payload.Quote.Low)
	return quote, nil
}

// FetchRSI retrieves the latest daily RSI(14) value.
func (a *AlphaVantage) FetchRSI(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := indicatorParams("RSI", symbol)
	params.Set("time_period", "14")

	var payload struct {
		apiStatus
		Series map[string]struct {
			RSI string `json:"RSI"`
		} `json:"Technical Analysis: RSI"`
	}
	if err := a.get(ctx, params, &payload); err != nil {
		return decimal.Decimal{}, err
	}
	if err := payload.apiStatus.err(); err != nil {
		return decimal.Decimal{}, err
	}

	entry, ok := latestEntry(payload.Series)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no RSI series for %s", ErrNoData, symbol)
	}
	value, err := decimal.NewFromString(entry.RSI)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse rsi: %w", err)
	}
	return value, nil
}

// FetchMACD retrieves the latest daily MACD line and signal line.
func (a *AlphaVantage) FetchMACD(ctx context.Context, symbol string) (MACDValue, error) {
	params := indicatorParams("MACD", symbol)

	var payload struct {
		apiStatus
		Series map[string]struct {
			MACD   string `json:"MACD"`
			Signal string `json:"MACD_Signal"`
		} `json:"Technical Analysis: MACD"`
	}
	if err := a.get(ctx, params, &payload); err != nil {
		return MACDValue{}, err
	}
	if err := payload.apiStatus.err(); err != nil {
		return MACDValue{}, err
	}

	entry, ok := latestEntry(payload.Series)
	if !ok {
		return MACDValue{}, fmt.Errorf("%w: no MACD series for %s", ErrNoData, symbol)
	}
	macd, err := decimal.NewFromString(entry.MACD)
	if err != nil {
		return MACDValue{}, fmt.Errorf("parse macd: %w", err)
	}
	sig, err := decimal.NewFromString(entry.Signal)
	if err != nil {
		return MACDValue{}, fmt.Errorf("parse macd signal: %w", err)
	}
	return MACDValue{MACD: macd, Signal: sig}, nil
}

// FetchEMA retrieves the latest daily EMA for the given period.
func (a *AlphaVantage) FetchEMA(ctx context.Context, symbol string, period int) (decimal.Decimal, error) {
	params := indicatorParams("EMA", symbol)
	params.Set("time_period", strconv.Itoa(period))

	var payload struct {
		apiStatus
		Series map[string]struct {
			EMA string `json:"EMA"`
		} `json:"Technical Analysis: EMA"`
	}
	if err := a.get(ctx, params, &payload); err != nil {
		return decimal.Decimal{}, err
	}
	if err := payload.apiStatus.err(); err != nil {
		return decimal.Decimal{}, err
	}

	entry, ok := latestEntry(payload.Series)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no EMA(%d) series for %s", ErrNoData, period, symbol)
	}
	value, err := decimal.NewFromString(entry.EMA)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse ema: %w", err)
	}
	return value, nil
}

// FetchBBands retrieves the latest daily Bollinger bands (20, 2σ).
func (a *AlphaVantage) FetchBBands(ctx context.Context, symbol string) (Bands, error) {
	params := indicatorParams("BBANDS", symbol)
	params.Set("time_period", "20")
	params.Set("nbdevup", "2")
	params.Set("nbdevdn", "2")

	var payload struct {
		apiStatus
		Series map[string]struct {
			Upper string `json:"Real Upper Band"`
			Lower string `json:"Real Lower Band"`
		} `json:"Technical Analysis: BBANDS"`
	}
	if err := a.get(ctx, params, &payload); err != nil {
		return Bands{}, err
	}
	if err := payload.apiStatus.err(); err != nil {
		return Bands{}, err
	}

	entry, ok := latestEntry(payload.Series)
	if !ok {
		return Bands{}, fmt.Errorf("%w: no BBANDS series for %s", ErrNoData, symbol)
	}
	lower, err := decimal.NewFromString(entry.Lower)
	if err != nil {
		return Bands{}, fmt.Errorf("parse lower band: %w", err)
	}
	upper, err := decimal.NewFromString(entry.Upper)
	if err != nil {
		return Bands{}, fmt.Errorf("parse upper band: %w", err)
	}
	return Bands{Lower: lower, Upper: upper}, nil
}

func (a *AlphaVantage) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", a.opts.APIKey)

	endpoint := a.baseURL + queryPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(a.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alpha vantage status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func indicatorParams(function, symbol string) url.Values {
	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("series_type", "close")
	return params
}

// latestEntry picks the most recent row of a date-keyed series. Keys are
// ISO dates, so lexicographic order is chronological order.
func latestEntry[T any](series map[string]T) (T, bool) {
	var (
		bestKey string
		best    T
		found   bool
	)
	for key, entry := range series {
		if !found || key > bestKey {
			bestKey = key
			best = entry
			found = true
		}
	}
	return best, found
}

func parseOptional(v string) *decimal.Decimal {
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

var (
	_ QuoteFetcher     = (*AlphaVantage)(nil)
	_ IndicatorFetcher = (*AlphaVantage)(nil)
)
