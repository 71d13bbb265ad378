package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Keepalive periodically pings a URL so free-tier hosting does not idle the
// process out. It runs on its own timer and shares no state with the scan
// loop.
type Keepalive struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   zerolog.Logger
}

// NewKeepalive creates a keepalive pinger. An empty URL disables it.
func NewKeepalive(url string, interval time.Duration, logger zerolog.Logger) *Keepalive {
	return &Keepalive{
		url:      url,
		interval: interval,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Start launches the ping loop; it returns immediately and stops when ctx is
// cancelled.
func (k *Keepalive) Start(ctx context.Context) {
	if k.url == "" {
		return
	}

	go func() {
		ticker := time.NewTicker(k.interval)
		defer ticker.Stop()

		k.logger.Info().Str("url", k.url).Dur("interval", k.interval).Msg("Keepalive started")
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				k.ping(ctx)
			}
		}
	}()
}

func (k *Keepalive) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		k.logger.Debug().Err(err).Msg("Keepalive request build failed")
		return
	}

	resp, err := k.client.Do(req)
	if err != nil {
		k.logger.Debug().Err(err).Msg("Keepalive ping failed")
		return
	}
	resp.Body.Close()
}
