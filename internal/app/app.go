package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"stock-signal-alerts/internal/alerting"
	"stock-signal-alerts/internal/config"
	"stock-signal-alerts/internal/fetcher"
	"stock-signal-alerts/internal/markethours"
	"stock-signal-alerts/internal/scheduler"
	"stock-signal-alerts/internal/service"
	"stock-signal-alerts/internal/state"
	"stock-signal-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newMarketClient() *fetcher.AlphaVantage {
	return fetcher.NewAlphaVantage(fetcher.AlphaVantageOptions{
		BaseURL:   a.Config.Provider.BaseURL,
		APIKey:    a.Config.Provider.APIKey,
		Timeout:   a.Config.Provider.RequestTimeout,
		UserAgent: a.Config.Provider.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) newService(store *storage.Store) (*service.Service, error) {
	loc, err := a.Config.Location()
	if err != nil {
		return nil, err
	}

	var alertStore storage.AlertStore
	if store != nil {
		alertStore = store
	}

	svc := service.New(service.Options{
		Watchlist:  a.Config.Watchlist,
		Quotes:     a.newMarketClient(),
		Indicators: a.newMarketClient(),
		History:    state.NewHistoryStore(),
		Dedup:      state.NewDedupStore(loc, nil),
		Notifier:   a.newNotifier(),
		AlertStore: alertStore,
		Window: markethours.Window{
			Loc:       loc,
			OpenHour:  a.Config.MarketHours.OpenHour,
			CloseHour: a.Config.MarketHours.CloseHour,
		},
		Thresholds: service.ThresholdsFromConfig(a.Config.Signals),
		Sentiment:  a.Config.Sentiment,
		DedupTTL:   a.Config.Dedup.Retention,
		AuditTTL:   a.Config.Database.AuditRetention,
		AlertsOn:   a.Config.Alerting.Enabled,
	}, a.Logger)

	return svc, nil
}

// Run executes the long-running alert bot.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; alert audit log disabled")
	}
	if closeStore != nil {
		defer closeStore()
	}

	svc, err := a.newService(store)
	if err != nil {
		return err
	}

	loc, err := a.Config.Location()
	if err != nil {
		return err
	}

	sched := scheduler.New(loc, a.Logger)
	jobs := a.Config.Jobs
	if err := sched.AddInterval("technical_signals", jobs.TechnicalInterval, svc.CheckTechnicalSignals); err != nil {
		return err
	}
	if err := sched.AddInterval("support_resistance", jobs.LevelsInterval, svc.CheckSupportResistance); err != nil {
		return err
	}
	if err := sched.AddInterval("market_sentiment", jobs.SentimentInterval, svc.CheckMarketSentiment); err != nil {
		return err
	}
	if err := sched.AddCron("cleanup", jobs.CleanupSpec, svc.CleanupOldAlerts); err != nil {
		return err
	}

	a.Logger.Info().
		Strs("watchlist", a.Config.Watchlist).
		Str("timezone", a.Config.MarketHours.Timezone).
		Msg("starting alert bot")

	sched.Start()
	<-ctx.Done()
	sched.Stop()

	a.Logger.Info().Msg("alert bot stopped")
	return nil
}

// ExportOptions hold parameters for exporting the alert audit log.
type ExportOptions struct {
	Since   time.Duration
	PNGPath string
	CSVPath string
	Limit   int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
