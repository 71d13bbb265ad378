// Package notify provides notification delivery for screener alerts.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"premarket-screener/internal/config"
	apperrors "premarket-screener/internal/errors"
	"premarket-screener/internal/models"
)

// Notifier delivers screener messages to a fixed destination.
// Delivery is best-effort: callers log returned errors and continue.
type Notifier interface {
	SendAlert(ctx context.Context, res models.ScreenResult) error
	SendSummary(ctx context.Context, at time.Time, matches []models.ScreenResult) error
	SendFailure(ctx context.Context, message string) error
}

// Channel is a single delivery transport.
type Channel interface {
	Name() string
	Send(ctx context.Context, text string) error
	IsEnabled() bool
}

// MultiNotifier fans a message out to every enabled channel.
type MultiNotifier struct {
	channels []Channel
}

// NewMultiNotifier creates a MultiNotifier from configuration.
func NewMultiNotifier(cfg *config.NotificationConfig) *MultiNotifier {
	mn := &MultiNotifier{}
	if cfg.Telegram.Enabled {
		mn.channels = append(mn.channels, NewTelegramChannel(cfg.Telegram))
	}
	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookChannel(cfg.Webhook))
	}
	return mn
}

// AddChannel adds a delivery channel.
func (mn *MultiNotifier) AddChannel(ch Channel) {
	mn.channels = append(mn.channels, ch)
}

func (mn *MultiNotifier) send(ctx context.Context, text string) error {
	var errs []string
	for _, ch := range mn.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, text); err != nil {
			errs = append(errs, apperrors.NewNotifyError(ch.Name(), err).Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SendAlert delivers an individual match alert.
func (mn *MultiNotifier) SendAlert(ctx context.Context, res models.ScreenResult) error {
	return mn.send(ctx, FormatAlert(res))
}

// SendSummary delivers the periodic rollup for one scan.
func (mn *MultiNotifier) SendSummary(ctx context.Context, at time.Time, matches []models.ScreenResult) error {
	return mn.send(ctx, FormatSummary(at, matches))
}

// SendFailure delivers a descriptive failure notice.
func (mn *MultiNotifier) SendFailure(ctx context.Context, message string) error {
	return mn.send(ctx, "⚠️ "+message)
}

// FormatAlert renders an individual alert message.
func FormatAlert(res models.ScreenResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔥 $%s ALERT!\n", res.Symbol)
	fmt.Fprintf(&sb, "Price: $%.2f | Prev Close: $%.2f\n", res.Price, res.PreviousClose)
	fmt.Fprintf(&sb, "Change: %+.1f%%\n", res.PercentChange)
	if res.RelativeVolume != nil {
		fmt.Fprintf(&sb, "Volume: %s | Rel Vol: %.2f\n", formatThousands(res.Volume), *res.RelativeVolume)
	} else {
		fmt.Fprintf(&sb, "Volume: %s\n", formatThousands(res.Volume))
	}
	fmt.Fprintf(&sb, "Market Cap: $%.1fM", res.MarketCapMillions)
	return sb.String()
}

// FormatSummary renders the rollup message. The timestamp is rendered in its
// own location, so callers pass a time already converted to the scan timezone.
func FormatSummary(at time.Time, matches []models.ScreenResult) string {
	header := fmt.Sprintf("📊 Pre-market rollup %s", at.Format("2006-01-02 15:04 MST"))
	if len(matches) == 0 {
		return header + "\n\nNo matches this scan."
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, formatSummaryLine(m))
	}
	return header + "\n\n" + strings.Join(lines, "\n\n")
}

func formatSummaryLine(m models.ScreenResult) string {
	line := fmt.Sprintf("$%s $%.2f %+.1f%% | Vol %s", m.Symbol, m.Price, m.PercentChange, formatThousands(m.Volume))
	if m.RelativeVolume != nil {
		line += fmt.Sprintf(" | Rel Vol %.2f", *m.RelativeVolume)
	}
	line += fmt.Sprintf(" | Cap $%.1fM", m.MarketCapMillions)
	return line
}

// formatThousands renders an integer with comma separators.
func formatThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}

	if negative {
		return "-" + s
	}
	return s
}

// TelegramChannel sends messages via the Telegram bot API.
type TelegramChannel struct {
	botToken string
	chatID   string
	enabled  bool
	baseURL  string
	client   *http.Client
}

// NewTelegramChannel creates a new Telegram channel.
func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	return &TelegramChannel{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		enabled:  cfg.Enabled && cfg.BotToken != "" && cfg.ChatID != "",
		baseURL:  "https://api.telegram.org",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the channel name.
func (t *TelegramChannel) Name() string {
	return "telegram"
}

// IsEnabled returns whether the channel is enabled.
func (t *TelegramChannel) IsEnabled() bool {
	return t.enabled
}

// Send posts a plain-text message to the configured chat.
func (t *TelegramChannel) Send(ctx context.Context, text string) error {
	if !t.enabled {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	payload := map[string]interface{}{
		"chat_id": t.chatID,
		"text":    text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling telegram payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// WebhookChannel POSTs messages to an HTTP webhook as JSON.
type WebhookChannel struct {
	url     string
	enabled bool
	client  *http.Client
}

// NewWebhookChannel creates a new webhook channel.
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	return &WebhookChannel{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the channel name.
func (w *WebhookChannel) Name() string {
	return "webhook"
}

// IsEnabled returns whether the channel is enabled.
func (w *WebhookChannel) IsEnabled() bool {
	return w.enabled
}

// Send posts the message to the webhook.
func (w *WebhookChannel) Send(ctx context.Context, text string) error {
	if !w.enabled {
		return nil
	}

	payload := map[string]interface{}{
		"text":      text,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PremarketScreener/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// NoOpNotifier discards every message (for tests or disabled notifications).
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// SendAlert does nothing.
func (n *NoOpNotifier) SendAlert(ctx context.Context, res models.ScreenResult) error {
	return nil
}

// SendSummary does nothing.
func (n *NoOpNotifier) SendSummary(ctx context.Context, at time.Time, matches []models.ScreenResult) error {
	return nil
}

// SendFailure does nothing.
func (n *NoOpNotifier) SendFailure(ctx context.Context, message string) error {
	return nil
}
