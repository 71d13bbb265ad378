package market

import (
	"context"
	"fmt"

	"github.com/piquette/finance-go/equity"

	apperrors "premarket-screener/internal/errors"
	"premarket-screener/internal/models"
)

// YahooSource serves snapshots from Yahoo Finance quotes. Yahoo exposes no
// exchange-listing endpoint, so the universe is a configured watchlist.
// Relative volume is derived from the 3-month average daily volume.
type YahooSource struct {
	symbols []string
}

// NewYahooSource creates a Yahoo-backed data source over the given watchlist.
func NewYahooSource(symbols []string) *YahooSource {
	universe := make([]string, len(symbols))
	copy(universe, symbols)
	return &YahooSource{symbols: universe}
}

// Name returns the provider name.
func (y *YahooSource) Name() string {
	return "yahoo"
}

// ListSymbols returns the configured watchlist.
func (y *YahooSource) ListSymbols(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewProviderError("universe", "", err)
	}
	if len(y.symbols) == 0 {
		return nil, apperrors.NewProviderError("universe", "", fmt.Errorf("yahoo provider has an empty watchlist"))
	}
	universe := make([]string, len(y.symbols))
	copy(universe, y.symbols)
	return universe, nil
}

// GetSnapshot fetches a single equity quote.
func (y *YahooSource) GetSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewProviderError("quote", symbol, err)
	}

	q, err := equity.Get(symbol)
	if err != nil {
		return nil, apperrors.NewProviderError("quote", symbol, err)
	}
	if q == nil {
		return nil, apperrors.NewProviderError("quote", symbol, fmt.Errorf("empty quote"))
	}

	var relVol *float64
	if q.AverageDailyVolume3Month > 0 && q.RegularMarketVolume > 0 {
		rv := float64(q.RegularMarketVolume) / float64(q.AverageDailyVolume3Month)
		relVol = &rv
	}

	return &models.Snapshot{
		Symbol:            symbol,
		CurrentPrice:      q.RegularMarketPrice,
		PreviousClose:     q.RegularMarketPreviousClose,
		Volume:            int64(q.RegularMarketVolume),
		MarketCapMillions: float64(q.MarketCap) / 1e6,
		RelativeVolume:    relVol,
	}, nil
}
