package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/model"
)

// effectiveTgID возвращает действующий tg id с учётом имперсонации владельцем
func (h *Handlers) effectiveTgID(realTgID int64) int64 {
	return h.impersonation.Effective(realTgID)
}

// requireUser проверяет что пользователь зарегистрирован.
// Возвращает user и true если OK, nil и false если нет.
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	if update.Message == nil {
		return nil, false
	}

	tgID := h.effectiveTgID(update.Message.From.ID)
	user, err := h.userService.GetByTgID(tgID)

	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("tg_id", tgID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	if user == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Вы не зарегистрированы. Используйте /register")
		return nil, false
	}

	return user, true
}

// requireTA проверяет что пользователь — преподаватель или владелец
func (h *Handlers) requireTA(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return nil, false
	}

	if !user.Role.IsTA() {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Эта команда доступна только преподавателям.\n\nПодать заявку: /becometa")
		return nil, false
	}

	return user, true
}

// requireOwner проверяет что пользователь — владелец курса.
// Имперсонация здесь не действует: административные команды
// выполняются только от собственного имени.
func (h *Handlers) requireOwner(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil {
		return false
	}

	role, err := h.userService.GetRole(update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to get role", zap.Int64("tg_id", update.Message.From.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return false
	}

	if role != model.RoleOwner {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только администратору.")
		return false
	}

	return true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendWithKeyboard отправляет сообщение с inline-клавиатурой
func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error("Failed to send message with keyboard",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
