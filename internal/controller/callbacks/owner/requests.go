package owner

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/callbacktypes"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/keyboard"
	"github.com/antonzhd/course_admin_bot/internal/model"
)

// requireOwner проверяет роль владельца. false — ответ уже отправлен.
func requireOwner(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) bool {
	role, err := h.UserService.GetRole(callback.From.ID)
	if err != nil || role != model.RoleOwner {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrNotOwner))
		return false
	}
	return true
}

// HandleRequestApprove — владелец одобряет заявку: выбираем код TA из списка
func HandleRequestApprove(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	if !requireOwner(ctx, b, callback, h) {
		return
	}

	applicantTg, err := strconv.ParseInt(common.CallbackArg(callback.Data, "req_approve:"), 10, 64)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	tas, err := h.UserService.ListRosterTAs()
	if err != nil {
		h.Logger.Error("Failed to list roster TAs", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	kb := keyboard.NewBuilder()
	for _, ta := range tas {
		kb.Row(keyboard.Button(ta.TAID+" — "+ta.FullName(),
			fmt.Sprintf("req_assign:%d:%s", applicantTg, ta.TAID)))
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		"Выберите код преподавателя для заявителя:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show TA codes", zap.Error(err))
	}
}

// HandleRequestAssign — владелец назначил код: одобряем заявку
func HandleRequestAssign(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	if !requireOwner(ctx, b, callback, h) {
		return
	}

	args := common.CallbackArgs(callback.Data, "req_assign:")
	if len(args) != 2 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}
	applicantTg, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}
	taID := args[1]

	ok, err := h.TAService.Approve(callback.From.ID, applicantTg, taID)
	if err != nil {
		h.Logger.Error("Failed to approve TA request",
			zap.Int64("applicant_tg", applicantTg), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	if !ok {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Заявка не найдена или уже обработана")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "Заявка одобрена")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		fmt.Sprintf("✅ Заявка одобрена, назначен код %s.", taID), nil); err != nil {
		h.Logger.Error("Failed to confirm approval", zap.Error(err))
	}

	// Сообщаем заявителю о новой роли
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: applicantTg,
		Text:   fmt.Sprintf("🎉 Ваша заявка одобрена! Ваш код преподавателя: %s\nСоздайте слоты: /createwindow", taID),
	})
	if err != nil {
		h.Logger.Error("Failed to notify applicant", zap.Int64("tg_id", applicantTg), zap.Error(err))
	}
}

// HandleRequestReject — владелец отклоняет заявку
func HandleRequestReject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	if !requireOwner(ctx, b, callback, h) {
		return
	}

	applicantTg, err := strconv.ParseInt(common.CallbackArg(callback.Data, "req_reject:"), 10, 64)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	ok, err := h.TAService.Reject(callback.From.ID, applicantTg)
	if err != nil {
		h.Logger.Error("Failed to reject TA request",
			zap.Int64("applicant_tg", applicantTg), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	if !ok {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Заявка не найдена или уже обработана")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "Заявка отклонена")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		"❌ Заявка отклонена.", nil); err != nil {
		h.Logger.Error("Failed to confirm rejection", zap.Error(err))
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: applicantTg,
		Text:   "К сожалению, ваша заявка на роль преподавателя отклонена.",
	})
	if err != nil {
		h.Logger.Error("Failed to notify applicant", zap.Int64("tg_id", applicantTg), zap.Error(err))
	}
}
