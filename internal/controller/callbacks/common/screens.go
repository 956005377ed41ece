package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// EditOrSend редактирует сообщение callback'а, а если его нет —
// отправляет новое. Навигация по inline-кнопкам живёт в одном сообщении.
func EditOrSend(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, chatID int64, text string, markup *models.InlineKeyboardMarkup) error {
	msg := GetMessageFromCallback(callback)
	if msg != nil {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			Text:        text,
			ReplyMarkup: markup,
		})
		return err
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	_, err := b.SendMessage(ctx, params)
	return err
}
