package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/keyboard"
	"github.com/antonzhd/course_admin_bot/internal/controller/state"
	"github.com/antonzhd/course_admin_bot/internal/model"
)

// HandleRequests показывает владельцу ожидающие заявки на роль преподавателя
func (h *Handlers) HandleRequests(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireOwner(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	pending, err := h.taService.ListPending()
	if err != nil {
		h.logger.Error("Failed to list pending requests", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(pending) == 0 {
		h.sendMessage(ctx, b, chatID, "Новых заявок нет.")
		return
	}

	for _, req := range pending {
		kb := keyboard.NewBuilder().Row(
			keyboard.Button("✅ Одобрить", fmt.Sprintf("req_approve:%d", req.TgID)),
			keyboard.Button("❌ Отклонить", fmt.Sprintf("req_reject:%d", req.TgID)),
		)
		text := fmt.Sprintf("Заявка от %s %s (tg:%d)\nПодана: %s",
			req.FirstName, req.LastName, req.TgID, req.CreatedAt)
		h.sendWithKeyboard(ctx, b, chatID, text, kb.Build())
	}
}

// HandleSetRole — /setrole <tg_id> <owner|ta|student>
func (h *Handlers) HandleSetRole(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireOwner(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 3 {
		h.sendMessage(ctx, b, chatID, "Формат: /setrole <tg_id> <owner|ta|student>")
		return
	}

	tgID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Неверный tg_id")
		return
	}

	role := model.Role(parts[2])
	switch role {
	case model.RoleOwner, model.RoleTA, model.RoleStudent:
	default:
		h.sendError(ctx, b, chatID, "❌ Неизвестная роль: "+parts[2])
		return
	}

	ok, err := h.userService.SetRole(tgID, role)
	if err != nil {
		h.logger.Error("Failed to set role", zap.Int64("tg_id", tgID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if !ok {
		h.sendError(ctx, b, chatID, "❌ Пользователь не найден")
		return
	}

	h.auditService.Log(update.Message.From.ID, "ROLE_SET", strconv.FormatInt(tgID, 10),
		map[string]any{"role": string(role)})
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Роль %s установлена для tg:%d", role, tgID))
}

// HandleAssignTA — /assignta <student_code> <week> <ta_code>
func (h *Handlers) HandleAssignTA(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireOwner(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 4 {
		h.sendMessage(ctx, b, chatID, "Формат: /assignta <код студента> <неделя> <код TA>\nНапример: /assignta ST-042 3 TA-01")
		return
	}

	week, err := strconv.Atoi(parts[2])
	if err != nil || week < 1 {
		h.sendError(ctx, b, chatID, "❌ Неверный номер недели")
		return
	}

	if err := h.assignmentService.Set(update.Message.From.ID, parts[1], week, parts[3]); err != nil {
		h.logger.Error("Failed to assign TA", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ %s принимает у %s на неделе %d", parts[3], parts[1], week))
}

// HandleImpersonate — /impersonate <tg_id>: владелец видит бота глазами пользователя
func (h *Handlers) HandleImpersonate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireOwner(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 2 {
		h.sendMessage(ctx, b, chatID, "Формат: /impersonate <tg_id>\nВернуться: /stopimpersonate")
		return
	}

	target, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || target <= 0 {
		h.sendError(ctx, b, chatID, "❌ Неверный tg_id")
		return
	}

	h.impersonation.Start(update.Message.From.ID, target)
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("🎭 Вы действуете от имени tg:%d. Вернуться: /stopimpersonate", target))
}

// HandleStopImpersonate завершает режим имперсонации
func (h *Handlers) HandleStopImpersonate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if !h.impersonation.Stop(update.Message.From.ID) {
		h.sendMessage(ctx, b, chatID, "Режим имперсонации не был включён.")
		return
	}
	h.sendMessage(ctx, b, chatID, "✅ Вы снова действуете от своего имени.")
}

// HandleImportWeeks запускает импорт недель курса
func (h *Handlers) HandleImportWeeks(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireOwner(ctx, b, update) {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateImportWeeks)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Отправьте недели, по одной на строку, в формате:\n"+
			"номер;название;описание\n\n"+
			"Например:\n1;Введение;Базовые понятия\n2;Протоколы;HTTP и TCP\n\n"+
			"Существующий список будет заменён целиком. Прервать: /cancel")
}

// HandleAddTask запускает диалог добавления задания
func (h *Handlers) HandleAddTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireOwner(ctx, b, update) {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateTaskWeek)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "Номер недели для задания? Прервать: /cancel")
}
