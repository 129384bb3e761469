package cli

import (
	"time"

	"github.com/spf13/cobra"

	"stock-signal-alerts/internal/app"
)

var (
	exportSince   time.Duration
	exportPNGPath string
	exportCSVPath string
	exportLimit   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the alert audit log as CSV and/or an activity chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			Since:   exportSince,
			PNGPath: exportPNGPath,
			CSVPath: exportCSVPath,
			Limit:   exportLimit,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().DurationVar(&exportSince, "since", 0, "Chart window, e.g. 720h (defaults to 30 days)")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write the alerts-per-day PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum alerts to export to CSV (defaults to 1000)")
}
