// Package models defines the core data types for the premarket screener.
package models

import "strings"

// Snapshot is a point-in-time read of a single symbol's premarket state.
// RelativeVolume is a pointer because not every provider reports it.
type Snapshot struct {
	Symbol            string
	CurrentPrice      float64
	PreviousClose     float64
	Volume            int64
	MarketCapMillions float64
	RelativeVolume    *float64
}

// Valid reports whether all required fields are present and strictly positive.
// An invalid snapshot must be skipped, never treated as zeroes.
func (s *Snapshot) Valid() bool {
	if s == nil {
		return false
	}
	return s.CurrentPrice > 0 &&
		s.PreviousClose > 0 &&
		s.Volume > 0 &&
		s.MarketCapMillions > 0
}

// PercentChange returns the gap between previous close and current price as a
// percentage. Returns 0 when previousClose is not strictly positive; that is a
// division guard, not a "no change" signal.
func PercentChange(currentPrice, previousClose float64) float64 {
	if previousClose <= 0 {
		return 0
	}
	return (currentPrice - previousClose) / previousClose * 100
}

// EligibleSymbol reports whether a ticker participates in screening at all.
// Dotted share-class tickers (BRK.A style) are excluded outright.
func EligibleSymbol(symbol string) bool {
	return symbol != "" && !strings.Contains(symbol, ".")
}

// ScreenResult is a match that satisfied every active criterion.
// It lives only for the duration of one scan.
type ScreenResult struct {
	Symbol            string
	Price             float64
	PreviousClose     float64
	PercentChange     float64
	Volume            int64
	RelativeVolume    *float64
	MarketCapMillions float64
}
