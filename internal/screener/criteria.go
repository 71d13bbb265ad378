package screener

import (
	"premarket-screener/internal/config"
	"premarket-screener/internal/models"
)

// ExtraFilter selects which additional condition a candidate must satisfy
// beyond price, gap and volume. Exactly one applies per evaluation.
type ExtraFilter string

const (
	// ExtraFilterRelativeVolume requires relative volume >= RelativeVolumeMin.
	ExtraFilterRelativeVolume ExtraFilter = "relative_volume"
	// ExtraFilterMarketCap requires market cap < MarketCapCeilingMillions.
	ExtraFilterMarketCap ExtraFilter = "market_cap"
)

// Criteria is the stateless predicate deciding whether a snapshot is an
// interesting premarket candidate. The price ceiling is inclusive.
type Criteria struct {
	PriceCeiling             float64
	GapPercentMin            float64
	VolumeMin                int64
	MarketCapCeilingMillions float64
	RelativeVolumeMin        float64
	Extra                    ExtraFilter
}

// DefaultCriteria returns the standard low-float gap-up thresholds.
func DefaultCriteria() Criteria {
	return Criteria{
		PriceCeiling:             5.00,
		GapPercentMin:            20,
		VolumeMin:                100000,
		MarketCapCeilingMillions: 300,
		RelativeVolumeMin:        2,
		Extra:                    ExtraFilterRelativeVolume,
	}
}

// CriteriaFromConfig builds Criteria from the screen configuration section.
func CriteriaFromConfig(cfg config.ScreenConfig) Criteria {
	return Criteria{
		PriceCeiling:             cfg.PriceCeiling,
		GapPercentMin:            cfg.GapPercentMin,
		VolumeMin:                cfg.VolumeMin,
		MarketCapCeilingMillions: cfg.MarketCapCeilingMillions,
		RelativeVolumeMin:        cfg.RelativeVolumeMin,
		Extra:                    ExtraFilter(cfg.ExtraFilter),
	}
}

// Match reports whether a snapshot passes every active criterion.
// Invalid snapshots never match.
func (c Criteria) Match(snap *models.Snapshot) bool {
	if !snap.Valid() {
		return false
	}
	if snap.CurrentPrice > c.PriceCeiling {
		return false
	}
	if models.PercentChange(snap.CurrentPrice, snap.PreviousClose) < c.GapPercentMin {
		return false
	}
	if snap.Volume < c.VolumeMin {
		return false
	}

	switch c.Extra {
	case ExtraFilterMarketCap:
		return snap.MarketCapMillions < c.MarketCapCeilingMillions
	default:
		return snap.RelativeVolume != nil && *snap.RelativeVolume >= c.RelativeVolumeMin
	}
}

// Evaluate applies Match and, on success, builds the scan result.
func (c Criteria) Evaluate(snap *models.Snapshot) (models.ScreenResult, bool) {
	if !c.Match(snap) {
		return models.ScreenResult{}, false
	}
	return models.ScreenResult{
		Symbol:            snap.Symbol,
		Price:             snap.CurrentPrice,
		PreviousClose:     snap.PreviousClose,
		PercentChange:     models.PercentChange(snap.CurrentPrice, snap.PreviousClose),
		Volume:            snap.Volume,
		RelativeVolume:    snap.RelativeVolume,
		MarketCapMillions: snap.MarketCapMillions,
	}, true
}
