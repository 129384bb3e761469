package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"stock-signal-alerts/internal/storage"
)

// Export writes the alert audit log as CSV and/or a per-day activity chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	if opts.Limit <= 0 {
		opts.Limit = 1000
	}
	if opts.Since <= 0 {
		opts.Since = 30 * 24 * time.Hour
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	if opts.CSVPath != "" {
		alerts, err := store.ListRecentAlerts(ctx, opts.Limit)
		if err != nil {
			return err
		}
		if err := writeAlertsCSV(opts.CSVPath, alerts); err != nil {
			return err
		}
		a.Logger.Info().Int("alerts", len(alerts)).Str("path", opts.CSVPath).Msg("csv written")
	}

	if opts.PNGPath != "" {
		since := time.Now().UTC().Add(-opts.Since)
		counts, err := store.CountAlertsByDay(ctx, since)
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			a.Logger.Info().Msg("no alerts in export window")
			return nil
		}
		if err := writeActivityPNG(opts.PNGPath, counts); err != nil {
			return err
		}
		a.Logger.Info().Int("days", len(counts)).Str("path", opts.PNGPath).Msg("chart written")
	}

	return nil
}

func writeAlertsCSV(path string, alerts []storage.AlertRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"created_at", "symbol", "kind", "price", "message"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, alert := range alerts {
		record := []string{
			alert.CreatedAt.Format(time.RFC3339),
			alert.Symbol,
			alert.Kind,
			alert.Price.String(),
			alert.Message,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeActivityPNG(path string, counts []storage.DayCount) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(counts))
	y := make([]float64, len(counts))
	for i, dc := range counts {
		x[i] = dc.Day
		y[i] = float64(dc.Count)
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Alerts per day",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Alerts",
				XValues: x,
				YValues: y,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
