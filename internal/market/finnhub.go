package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "premarket-screener/internal/errors"
	"premarket-screener/internal/models"
)

const defaultFinnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubConfig holds Finnhub client configuration.
type FinnhubConfig struct {
	APIKey     string
	BaseURL    string        // defaults to the public API
	Timeout    time.Duration // per-request timeout, defaults to 10s
	MaxRetries uint64        // transient-failure retries per request, defaults to 3
}

// FinnhubSource fetches the US common-stock universe and per-symbol snapshots
// from the Finnhub REST API.
type FinnhubSource struct {
	apiKey     string
	baseURL    string
	maxRetries uint64
	client     *http.Client
}

// NewFinnhubSource creates a new Finnhub-backed data source.
func NewFinnhubSource(cfg FinnhubConfig) *FinnhubSource {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultFinnhubBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	return &FinnhubSource{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		client:     &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name.
func (f *FinnhubSource) Name() string {
	return "finnhub"
}

type finnhubSymbol struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
}

type finnhubQuote struct {
	Current       float64 `json:"c"`
	PreviousClose float64 `json:"pc"`
	Volume        float64 `json:"v"`
}

type finnhubProfile struct {
	MarketCapitalization float64 `json:"marketCapitalization"`
}

type finnhubMetrics struct {
	Metric struct {
		RelativeVolume *float64 `json:"relativeVolume"`
	} `json:"metric"`
}

// ListSymbols returns the US common-stock universe.
func (f *FinnhubSource) ListSymbols(ctx context.Context) ([]string, error) {
	var listing []finnhubSymbol
	if err := f.getJSON(ctx, "/stock/symbol", url.Values{"exchange": {"US"}}, &listing); err != nil {
		return nil, apperrors.NewProviderError("universe", "", err)
	}

	symbols := make([]string, 0, len(listing))
	for _, s := range listing {
		if s.Type == "Common Stock" {
			symbols = append(symbols, s.Symbol)
		}
	}
	return symbols, nil
}

// GetSnapshot assembles a snapshot from the quote, profile and metric endpoints.
func (f *FinnhubSource) GetSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error) {
	params := url.Values{"symbol": {symbol}}

	var quote finnhubQuote
	if err := f.getJSON(ctx, "/quote", params, &quote); err != nil {
		return nil, apperrors.NewProviderError("quote", symbol, err)
	}

	var profile finnhubProfile
	if err := f.getJSON(ctx, "/stock/profile2", params, &profile); err != nil {
		return nil, apperrors.NewProviderError("profile", symbol, err)
	}

	metricParams := url.Values{"symbol": {symbol}, "metric": {"all"}}
	var metrics finnhubMetrics
	if err := f.getJSON(ctx, "/stock/metric", metricParams, &metrics); err != nil {
		return nil, apperrors.NewProviderError("metric", symbol, err)
	}

	return &models.Snapshot{
		Symbol:            symbol,
		CurrentPrice:      quote.Current,
		PreviousClose:     quote.PreviousClose,
		Volume:            int64(quote.Volume),
		MarketCapMillions: profile.MarketCapitalization,
		RelativeVolume:    metrics.Metric.RelativeVolume,
	}, nil
}

// getJSON performs a GET with the API token header and decodes the response,
// retrying transient failures with exponential backoff.
func (f *FinnhubSource) getJSON(ctx context.Context, path string, params url.Values, target interface{}) error {
	endpoint := f.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("X-Finnhub-Token", f.apiKey)

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("finnhub returned status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}

		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.maxRetries), ctx)
	return backoff.Retry(op, bo)
}
