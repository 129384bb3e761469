package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertRecord is one delivered alert, persisted for auditing. The audit log
// never drives deduplication; suppression decisions stay in memory.
type AlertRecord struct {
	ID        int64
	Symbol    string
	Kind      string
	Price     decimal.Decimal
	Message   string
	CreatedAt time.Time
}

// DayCount is the number of alerts recorded on one calendar day.
type DayCount struct {
	Day   time.Time
	Count int64
}
