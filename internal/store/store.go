// Package store provides the alert journal: a write-side audit log of every
// notification the screener sent. Screening state itself is never persisted;
// the tracker does not read the journal back.
package store

import (
	"context"
	"time"

	"premarket-screener/internal/models"
)

// AlertRecord is one journaled alert.
type AlertRecord struct {
	ID                int64
	Symbol            string
	Price             float64
	PercentChange     float64
	Volume            int64
	RelativeVolume    *float64
	MarketCapMillions float64
	SentAt            time.Time
}

// SummaryRecord is one journaled rollup.
type SummaryRecord struct {
	ID         int64
	MatchCount int
	SentAt     time.Time
}

// Journal records sent notifications for later review.
type Journal interface {
	RecordAlert(ctx context.Context, res models.ScreenResult, at time.Time) error
	RecordSummary(ctx context.Context, at time.Time, matchCount int) error
	RecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error)
	Close() error
}
