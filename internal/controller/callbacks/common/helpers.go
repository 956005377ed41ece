package common

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с всплывающим окном
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// CallbackArg извлекает аргумент после префикса.
// Например: CallbackArg("slot:slt_123", "slot:") -> "slt_123".
func CallbackArg(data, prefix string) string {
	return strings.TrimPrefix(data, prefix)
}

// CallbackArgs разбивает хвост callback data на части по двоеточию.
// Например: CallbackArgs("book:slt_1:2026-09-01", "book:") -> ["slt_1", "2026-09-01"].
func CallbackArgs(data, prefix string) []string {
	tail := strings.TrimPrefix(data, prefix)
	if tail == "" {
		return nil
	}
	return strings.Split(tail, ":")
}
