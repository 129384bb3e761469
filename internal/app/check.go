package app

import "context"

// Check performs a single detection pass over the watchlist, ignoring the
// market-hours gate. Deduplication still applies, so a check followed by
// the scheduled run will not double-alert.
func (a *App) Check(ctx context.Context) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	svc, err := a.newService(store)
	if err != nil {
		return err
	}

	a.Logger.Info().Strs("watchlist", a.Config.Watchlist).Msg("running one-shot check")
	return svc.RunOnce(ctx)
}
