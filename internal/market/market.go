// Package market provides market-data sources for the screener.
package market

import (
	"context"

	"premarket-screener/internal/models"
)

// DataSource yields the tradable symbol universe and per-symbol snapshots.
// Implementations are pure query interfaces and hold no screening state.
type DataSource interface {
	Name() string
	ListSymbols(ctx context.Context) ([]string, error)
	GetSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error)
}
