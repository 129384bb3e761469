package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stock-signal-alerts/internal/alerting"
	"stock-signal-alerts/internal/config"
	"stock-signal-alerts/internal/fetcher"
	"stock-signal-alerts/internal/markethours"
	"stock-signal-alerts/internal/signal"
	"stock-signal-alerts/internal/state"
	"stock-signal-alerts/internal/storage"
)

// Service orchestrates the scheduled checks: it pulls market data, runs the
// detection rules, gates events through deduplication, and dispatches the
// survivors to the notifier. An optional audit store records what fired.
type Service struct {
	watchlist  []string
	quotes     fetcher.QuoteFetcher
	indicators fetcher.IndicatorFetcher
	history    *state.HistoryStore
	dedup      *state.DedupStore
	notifier   alerting.Notifier
	alertStore storage.AlertStore
	window     markethours.Window
	thresholds signal.Thresholds
	logger     zerolog.Logger

	proxySymbol    string
	vixSymbol      string
	dedupRetention time.Duration
	auditRetention time.Duration
	alertsOn       bool

	now func() time.Time
}

// Options collects the service dependencies. AlertStore and Notifier may be
// nil; Now defaults to time.Now.
type Options struct {
	Watchlist  []string
	Quotes     fetcher.QuoteFetcher
	Indicators fetcher.IndicatorFetcher
	History    *state.HistoryStore
	Dedup      *state.DedupStore
	Notifier   alerting.Notifier
	AlertStore storage.AlertStore
	Window     markethours.Window
	Thresholds signal.Thresholds
	Sentiment  config.SentimentConfig
	DedupTTL   time.Duration
	AuditTTL   time.Duration
	AlertsOn   bool
	Now        func() time.Time
}

// New constructs the signal-checking service.
func New(opts Options, logger zerolog.Logger) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		watchlist:      opts.Watchlist,
		quotes:         opts.Quotes,
		indicators:     opts.Indicators,
		history:        opts.History,
		dedup:          opts.Dedup,
		notifier:       opts.Notifier,
		alertStore:     opts.AlertStore,
		window:         opts.Window,
		thresholds:     opts.Thresholds,
		logger:         logger.With().Str("component", "service").Logger(),
		proxySymbol:    opts.Sentiment.ProxySymbol,
		vixSymbol:      opts.Sentiment.VIXSymbol,
		dedupRetention: opts.DedupTTL,
		auditRetention: opts.AuditTTL,
		alertsOn:       opts.AlertsOn,
		now:            now,
	}
}

// ThresholdsFromConfig converts configured float thresholds to the exact
// decimal boundaries the rules compare against.
func ThresholdsFromConfig(cfg config.SignalsConfig) signal.Thresholds {
	return signal.Thresholds{
		RSIOversold:   decimal.NewFromFloat(cfg.RSIOversold),
		RSIOverbought: decimal.NewFromFloat(cfg.RSIOverbought),
		ProximityPct:  decimal.NewFromFloat(cfg.ProximityPct),
		SentimentPct:  decimal.NewFromFloat(cfg.SentimentPct),
	}
}

// CheckTechnicalSignals runs the RSI/MACD/Bollinger/EMA pass over the whole
// watchlist. Outside market hours it is a no-op. One symbol failing never
// stops the others; per-symbol errors are aggregated into the return value.
func (s *Service) CheckTechnicalSignals(ctx context.Context) error {
	if !s.window.Open(s.now()) {
		s.logger.Debug().Msg("market closed, skipping technical check")
		return nil
	}
	return s.runTechnical(ctx)
}

func (s *Service) runTechnical(ctx context.Context) error {
	var errs []error
	for _, symbol := range s.watchlist {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.analyzeTechnical(ctx, symbol); err != nil {
			s.logger.Error().Err(err).Str("symbol", symbol).Msg("technical check failed")
			errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) analyzeTechnical(ctx context.Context, symbol string) error {
	sample, err := s.collectSample(ctx, symbol)
	if err != nil {
		return err
	}

	prevMACD := pairOrNil(s.history.MACD(symbol))
	prevEMA := emaOrNil(s.history.EMA(symbol))

	events := signal.Technical(symbol, sample, prevMACD, prevEMA, s.thresholds)

	// History advances every cycle, fired or not. Only whole pairs are
	// stored; a half-fetched pair would poison the next crossover check.
	if sample.MACD != nil && sample.MACDSignal != nil {
		s.history.SetMACD(symbol, signal.MACDPair{MACD: *sample.MACD, Signal: *sample.MACDSignal})
	}
	if sample.EMA50 != nil && sample.EMA200 != nil {
		s.history.SetEMA(symbol, signal.EMAPair{Short: *sample.EMA50, Long: *sample.EMA200})
	}

	for _, ev := range events {
		s.dispatch(ctx, ev)
	}
	return nil
}

// collectSample gathers the quote plus each indicator. The quote is
// mandatory; indicator failures only leave their field nil.
func (s *Service) collectSample(ctx context.Context, symbol string) (signal.Sample, error) {
	quote, err := s.quotes.FetchQuote(ctx, symbol)
	if err != nil {
		return signal.Sample{}, fmt.Errorf("fetch quote: %w", err)
	}

	sample := signal.Sample{Price: &quote.Price}

	if rsi, err := s.indicators.FetchRSI(ctx, symbol); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("rsi unavailable")
	} else {
		sample.RSI = &rsi
	}

	if macd, err := s.indicators.FetchMACD(ctx, symbol); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("macd unavailable")
	} else {
		sample.MACD = &macd.MACD
		sample.MACDSignal = &macd.Signal
	}

	if ema50, err := s.indicators.FetchEMA(ctx, symbol, 50); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("ema50 unavailable")
	} else {
		sample.EMA50 = &ema50
	}

	if ema200, err := s.indicators.FetchEMA(ctx, symbol, 200); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("ema200 unavailable")
	} else {
		sample.EMA200 = &ema200
	}

	if bands, err := s.indicators.FetchBBands(ctx, symbol); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("bollinger bands unavailable")
	} else {
		sample.BBLower = &bands.Lower
		sample.BBUpper = &bands.Upper
	}

	return sample, nil
}

// CheckSupportResistance runs the band-proximity pass over the watchlist.
func (s *Service) CheckSupportResistance(ctx context.Context) error {
	if !s.window.Open(s.now()) {
		s.logger.Debug().Msg("market closed, skipping levels check")
		return nil
	}

	var errs []error
	for _, symbol := range s.watchlist {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.analyzeLevels(ctx, symbol); err != nil {
			s.logger.Error().Err(err).Str("symbol", symbol).Msg("levels check failed")
			errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) analyzeLevels(ctx context.Context, symbol string) error {
	quote, err := s.quotes.FetchQuote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch quote: %w", err)
	}
	bands, err := s.indicators.FetchBBands(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch bands: %w", err)
	}

	if ev, ok := signal.Levels(symbol, quote.Price, bands.Lower, bands.Upper, s.thresholds); ok {
		s.dispatch(ctx, ev)
	}
	return nil
}

// CheckMarketSentiment compares the broad-market proxy against its previous
// close. It runs regardless of market hours; the VIX quote is best effort
// and its absence never blocks the check.
func (s *Service) CheckMarketSentiment(ctx context.Context) error {
	quote, err := s.quotes.FetchQuote(ctx, s.proxySymbol)
	if err != nil {
		return fmt.Errorf("fetch proxy quote: %w", err)
	}

	in := signal.SentimentInput{
		Close:     quote.Price,
		PrevClose: quote.PreviousClose,
	}

	if s.vixSymbol != "" {
		if vix, err := s.quotes.FetchQuote(ctx, s.vixSymbol); err != nil {
			s.logger.Warn().Err(err).Str("symbol", s.vixSymbol).Msg("vix unavailable")
		} else {
			in.VIXClose = &vix.Price
			in.VIXPrevClose = &vix.PreviousClose
		}
	}

	if ev, ok := signal.Sentiment(in, s.thresholds); ok {
		s.dispatch(ctx, ev)
	}
	return nil
}

// CleanupOldAlerts drops expired dedup records and, when the audit store is
// configured, old audit rows. It runs regardless of market hours.
func (s *Service) CleanupOldAlerts(ctx context.Context) error {
	removed := s.dedup.PruneOlderThan(s.dedupRetention)
	s.logger.Info().Int("removed", removed).Int("remaining", s.dedup.Len()).Msg("dedup records pruned")

	if s.alertStore != nil && s.auditRetention > 0 {
		cutoff := s.now().Add(-s.auditRetention)
		dropped, err := s.alertStore.DeleteAlertsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune audit log: %w", err)
		}
		s.logger.Info().Int64("dropped", dropped).Time("cutoff", cutoff).Msg("audit rows pruned")
	}
	return nil
}

// RunOnce performs a single technical plus levels pass, bypassing the
// market-hours gate. Deduplication still applies.
func (s *Service) RunOnce(ctx context.Context) error {
	var errs []error
	if err := s.runTechnical(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, symbol := range s.watchlist {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.analyzeLevels(ctx, symbol); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errors.Join(errs...)
}

// dispatch gates one event through dedup and hands it to the notifier. A
// delivery failure is logged, never retried: the dedup record stands, so
// the same alert will not fire again today.
func (s *Service) dispatch(ctx context.Context, ev signal.Event) {
	if !s.dedup.MarkIfNew(ev.Symbol, ev.Kind) {
		s.logger.Debug().Str("symbol", ev.Symbol).Str("kind", string(ev.Kind)).Msg("alert suppressed by dedup")
		return
	}

	msg := alerting.Render(ev)
	s.logger.Info().Str("symbol", ev.Symbol).Str("kind", string(ev.Kind)).Str("price", ev.Price.String()).Msg("alert fired")

	if s.alertStore != nil {
		record := storage.AlertRecord{
			Symbol:  ev.Symbol,
			Kind:    string(ev.Kind),
			Price:   ev.Price,
			Message: msg,
		}
		if _, err := s.alertStore.InsertAlert(ctx, record); err != nil {
			s.logger.Error().Err(err).Str("symbol", ev.Symbol).Msg("failed to persist alert record")
		}
	}

	if !s.alertsOn || s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("symbol", ev.Symbol).Str("kind", string(ev.Kind)).Msg("failed to deliver alert")
	}
}

func pairOrNil(pair signal.MACDPair, ok bool) *signal.MACDPair {
	if !ok {
		return nil
	}
	return &pair
}

func emaOrNil(pair signal.EMAPair, ok bool) *signal.EMAPair {
	if !ok {
		return nil
	}
	return &pair
}
