package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"SwingHunter/internal/logger"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK     bool             `json:"ok"`
	Result []telegramUpdate `json:"result"`
}

const pollRetryDelay = 5 * time.Second

// StartPolling begins long-polling for Telegram commands. Messages from
// chats other than the configured one are ignored. Blocks until ctx is
// cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		if ctx.Err() != nil {
			logger.L().Info().Msg("telegram polling stopped")
			return
		}

		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.L().Warn().Err(err).Msg("polling request failed")
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if strconv.FormatInt(update.Message.Chat.ID, 10) != t.ChatID {
				logger.L().Debug().Int64("chat_id", update.Message.Chat.ID).Msg("ignoring message from foreign chat")
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			logger.L().Info().Str("command", text).Msg("received command")
			reply := handler(ctx, text)
			if reply == "" {
				continue
			}
			if err := t.Send(ctx, reply); err != nil {
				logger.L().Error().Err(err).Msg("send reply")
			}
		}
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int) ([]telegramUpdate, error) {
	var out updatesResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"offset":  strconv.Itoa(offset),
			"timeout": strconv.Itoa(t.pollTimeout),
		}).
		SetResult(&out).
		Get("/getUpdates")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || !out.OK {
		return nil, fmt.Errorf("getUpdates: status %d", resp.StatusCode())
	}
	return out.Result, nil
}
