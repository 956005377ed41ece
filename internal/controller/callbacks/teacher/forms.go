package teacher

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/callbacktypes"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common"
	"github.com/antonzhd/course_admin_bot/internal/model"
)

// HandleSlotFormMode — шаг формы создания слотов: выбран формат.
// Дальше просим место встречи, подставляя запомненное значение.
func HandleSlotFormMode(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	mode := common.CallbackArg(callback.Data, "slot_mode:")
	if mode != string(model.SlotModeOnline) && mode != string(model.SlotModeOffline) {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	tgID := callback.From.ID
	h.StateManager.SetData(tgID, "form_mode", mode)
	h.StateManager.SetState(tgID, "slot_form_place")

	id, err := h.UserService.TAIDByTg(h.EffectiveTgID(tgID))
	if err != nil {
		h.Logger.Error("Failed to resolve TA id", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	prefs, err := h.TAService.Prefs(id)
	if err != nil {
		h.Logger.Error("Failed to load TA prefs", zap.String("ta_id", id), zap.Error(err))
	}

	var prompt string
	if mode == string(model.SlotModeOnline) {
		prompt = "Отправьте ссылку на встречу"
		if prefs.LastMeetingLink != "" {
			prompt += ", либо «-» чтобы использовать прошлую:\n" + prefs.LastMeetingLink
		}
	} else {
		prompt = "Отправьте аудиторию"
		if prefs.LastLocation != "" {
			prompt += ", либо «-» чтобы использовать: " + prefs.LastLocation
		}
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, tgID, prompt, nil); err != nil {
		h.Logger.Error("Failed to prompt slot place", zap.Error(err))
	}
}

// HandleMaterialType — шаг загрузки материала: выбран тип аудитории.
func HandleMaterialType(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	mtype := common.CallbackArg(callback.Data, "matype:")
	if mtype != string(model.MaterialTypeStudent) && mtype != string(model.MaterialTypeTeacher) {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	tgID := callback.From.ID
	h.StateManager.SetData(tgID, "material_type", mtype)
	h.StateManager.SetState(tgID, "material_content")

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, tgID,
		"Отправьте файл документом или ссылку на материал:", nil); err != nil {
		h.Logger.Error("Failed to prompt material content", zap.Error(err))
	}
}
