package notifier

import (
	"context"
	"fmt"
	"time"

	"SwingHunter/internal/logger"

	"github.com/go-resty/resty/v2"
)

// DefaultAPIURL is the public Telegram Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	ChatID string

	client *resty.Client
	// backoff is the delay before the first retry; it doubles per attempt.
	backoff     time.Duration
	pollTimeout int
}

// NewTelegramNotifier creates a notifier with optional proxy support.
// An empty apiURL selects DefaultAPIURL.
func NewTelegramNotifier(apiURL, botToken, chatID, proxyURL string) *TelegramNotifier {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	client := resty.New().
		SetBaseURL(fmt.Sprintf("%s/bot%s", apiURL, botToken)).
		SetTimeout(40 * time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &TelegramNotifier{
		ChatID:      chatID,
		client:      client,
		backoff:     time.Second,
		pollTimeout: 30,
	}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	var out apiResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"chat_id":                  t.ChatID,
			"text":                     text,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		}).
		SetResult(&out).
		SetError(&out).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if resp.IsError() || !out.OK {
		return fmt.Errorf("telegram API error: status %d, description: %s", resp.StatusCode(), out.Description)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := t.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.backoff << uint(i)
		logger.L().Warn().
			Err(err).
			Int("attempt", i+1).
			Int("max_attempts", maxRetries+1).
			Dur("retry_in", backoff).
			Msg("telegram send failed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
