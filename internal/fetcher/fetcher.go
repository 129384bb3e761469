package fetcher

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoData indicates the provider had no usable value for the requested
// symbol or indicator. Callers treat it as "skip this rule this cycle",
// never as zero.
var ErrNoData = errors.New("fetcher: no data available")

// ErrRateLimited indicates the provider refused the call due to quota.
var ErrRateLimited = errors.New("fetcher: provider rate limit reached")

// Quote is a current snapshot for one symbol. Optional fields are nil when
// the provider omits them.
type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	PreviousClose decimal.Decimal
	Open          *decimal.Decimal
	High          *decimal.Decimal
	Low           *decimal.Decimal
}

// MACDValue is the MACD line and its signal line for one symbol.
type MACDValue struct {
	MACD   decimal.Decimal
	Signal decimal.Decimal
}

// Bands is the lower and upper Bollinger band for one symbol.
type Bands struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

// QuoteFetcher retrieves the current quote for a symbol.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (Quote, error)
}

// IndicatorFetcher retrieves precomputed indicator values for a symbol.
// Each call may fail independently; a missing RSI must not block MACD.
type IndicatorFetcher interface {
	FetchRSI(ctx context.Context, symbol string) (decimal.Decimal, error)
	FetchMACD(ctx context.Context, symbol string) (MACDValue, error)
	FetchEMA(ctx context.Context, symbol string, period int) (decimal.Decimal, error)
	FetchBBands(ctx context.Context, symbol string) (Bands, error)
}
