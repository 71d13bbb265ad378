package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# premarket-screener configuration

[screen]
# Maximum share price for a candidate (inclusive).
price_ceiling = 5.00
# Minimum gap over previous close, in percent.
gap_percent_min = 20.0
# Minimum shares traded.
volume_min = 100000
# Extra filter policy: "relative_volume" or "market_cap". Exactly one applies.
extra_filter = "relative_volume"
relative_volume_min = 2.0
market_cap_ceiling_millions = 300.0

[scan]
interval_seconds = 600
# A rollup summary is sent at most once per hour, within the first N minutes.
summary_window_minutes = 10
# "monotonic": a symbol alerts once per process lifetime.
# "rolling": the known-set is replaced with each scan's matches.
epoch_policy = "monotonic"
window_open_hour = 4
window_close_hour = 9
timezone = "America/New_York"
snapshot_timeout_seconds = 10
fetch_concurrency = 4

[provider]
# "finnhub" or "yahoo"
name = "finnhub"
# finnhub_api_key = ""          # or set FINNHUB_API_KEY
# symbols = ["AAPL", "SNDL"]    # required universe for the yahoo provider

[notifications.telegram]
enabled = true
# bot_token = ""                # or set TELEGRAM_BOT_TOKEN
# chat_id = ""                  # or set TELEGRAM_CHAT_ID

[notifications.webhook]
enabled = false
# url = "https://example.com/hook"

[server]
port = 10000
# keepalive_url = ""            # self-ping target for free-tier hosting
keepalive_interval_seconds = 840

[journal]
# SQLite audit log of sent alerts; empty disables.
# path = "screener.db"
`

// createTemplateConfig writes a commented config.toml so a first run leaves
// something editable behind. Defaults still apply until the user fills it in.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
