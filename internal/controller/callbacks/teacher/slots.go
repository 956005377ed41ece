package teacher

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/callbacktypes"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/formatting"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/keyboard"
	"github.com/antonzhd/course_admin_bot/internal/model"
)

// taID возвращает код преподавателя для пользователя callback'а.
// Пустая строка — пользователь не преподаватель, ответ уже отправлен.
func taID(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) string {
	id, err := h.UserService.TAIDByTg(h.EffectiveTgID(callback.From.ID))
	if err != nil || id == "" {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrNotATA))
		return ""
	}
	return id
}

// HandleMySlots показывает даты, на которые у преподавателя есть слоты
func HandleMySlots(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	id := taID(ctx, b, callback, h)
	if id == "" {
		return
	}

	views, err := h.BookingService.ListViewsForTA(id)
	if err != nil {
		h.Logger.Error("Failed to list TA slots", zap.String("ta_id", id), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	if len(views) == 0 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "У вас пока нет слотов. Создайте окно: /createwindow")
		return
	}

	var dates []string
	seen := make(map[string]bool)
	for _, v := range views {
		if !seen[v.Slot.Date] {
			seen[v.Slot.Date] = true
			dates = append(dates, v.Slot.Date)
		}
	}

	kb := keyboard.NewBuilder()
	for _, d := range dates {
		kb.Row(keyboard.Button("📅 "+d, "myslots_date:"+d))
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		"Ваши слоты. Выберите дату:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show slot dates", zap.Error(err))
	}
}

// HandleMySlotsDate показывает слоты преподавателя на дату
func HandleMySlotsDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	id := taID(ctx, b, callback, h)
	if id == "" {
		return
	}
	date := common.CallbackArg(callback.Data, "myslots_date:")

	views, err := h.BookingService.ListViewsForTA(id)
	if err != nil {
		h.Logger.Error("Failed to list TA slots", zap.String("ta_id", id), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	kb := keyboard.NewBuilder()
	for i := range views {
		v := &views[i]
		if v.Slot.Date != date {
			continue
		}
		display := formatting.GetStatusDisplay(v.Status)
		label := fmt.Sprintf("%s %s–%s (%d/%d)",
			display.Emoji, v.Slot.TimeFrom, v.Slot.TimeTo, v.ActiveCount, v.Slot.Capacity)
		kb.Row(keyboard.Button(label, "slot:"+v.Slot.ID))
	}
	kb.Row(keyboard.Button("« Назад", "myslots"))

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		"Слоты на "+date+":", kb.Build()); err != nil {
		h.Logger.Error("Failed to show slots for date", zap.Error(err))
	}
}

// HandleSlotCard показывает карточку слота с кнопками управления
func HandleSlotCard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slotID := common.CallbackArg(callback.Data, "slot:")
	showSlotCard(ctx, b, callback, h, slotID)
}

func showSlotCard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, slotID string) {
	slot, err := h.SlotService.GetByID(slotID)
	if err != nil || slot == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrSlotNotFound))
		return
	}

	view, err := h.BookingService.View(slot)
	if err != nil {
		h.Logger.Error("Failed to build slot view", zap.String("slot_id", slotID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	kb := keyboard.NewBuilder()
	switch view.Status {
	case model.ComputedCanceled, model.ComputedPast:
		// Управлять нечем
	case model.ComputedClosed:
		kb.Row(keyboard.Button("🔓 Открыть запись", "slot_open:"+slotID))
		kb.Row(keyboard.Button("⚫️ Отменить слот", "slot_cancel:"+slotID))
	default:
		kb.Row(keyboard.Button("🔒 Закрыть запись", "slot_close:"+slotID))
		kb.Row(keyboard.Button("⚫️ Отменить слот", "slot_cancel:"+slotID))
	}
	if view.ActiveCount > 0 {
		kb.Row(keyboard.Button("👥 Кто записан", "slot_bookings:"+slotID))
	}
	kb.Row(keyboard.Button("« Назад", "myslots_date:"+slot.Date))

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		formatting.FormatSlotCard(view), kb.Build()); err != nil {
		h.Logger.Error("Failed to show slot card", zap.Error(err))
	}
}

// HandleSlotOpen открывает запись в слот
func HandleSlotOpen(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	setSlotOpen(ctx, b, callback, h, common.CallbackArg(callback.Data, "slot_open:"), true)
}

// HandleSlotClose закрывает запись в слот
func HandleSlotClose(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	setSlotOpen(ctx, b, callback, h, common.CallbackArg(callback.Data, "slot_close:"), false)
}

func setSlotOpen(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, slotID string, open bool) {
	ok, err := h.SlotService.SetOpen(slotID, open)
	if err != nil {
		h.Logger.Error("Failed to toggle slot", zap.String("slot_id", slotID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	if !ok {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Слот отменён, изменить его нельзя")
		return
	}
	showSlotCard(ctx, b, callback, h, slotID)
}

// HandleSlotCancelStart запускает диалог отмены слота: просим причину
func HandleSlotCancelStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slotID := common.CallbackArg(callback.Data, "slot_cancel:")

	slot, err := h.SlotService.GetByID(slotID)
	if err != nil || slot == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrSlotNotFound))
		return
	}

	h.StateManager.SetState(callback.From.ID, "cancel_slot_reason")
	h.StateManager.SetData(callback.From.ID, "cancel_slot_id", slotID)

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		fmt.Sprintf("Отмена слота %s %s–%s.\n\nУкажите причину (она попадёт в журнал), либо отправьте «-»:",
			slot.Date, slot.TimeFrom, slot.TimeTo), nil); err != nil {
		h.Logger.Error("Failed to prompt cancel reason", zap.Error(err))
	}
}

// HandleSlotBookings показывает записанных в слот студентов
func HandleSlotBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slotID := common.CallbackArg(callback.Data, "slot_bookings:")

	bookings, err := h.BookingService.ListForSlot(slotID)
	if err != nil {
		h.Logger.Error("Failed to list slot bookings", zap.String("slot_id", slotID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	text := "Записаны:\n"
	count := 0
	for _, bk := range bookings {
		if bk.Status != model.BookingStatusActive {
			continue
		}
		count++
		line := fmt.Sprintf("\n%d. ", count)
		if code, err := h.UserService.StudentCodeByTg(bk.StudentTgID); err == nil && code != "" {
			line += code
		} else {
			line += fmt.Sprintf("tg:%d", bk.StudentTgID)
		}
		if user, err := h.UserService.GetByTgID(bk.StudentTgID); err == nil && user != nil {
			line += " — " + user.FirstName + " " + user.LastName
		}
		text += line
	}

	if count == 0 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Активных записей нет")
		return
	}

	kb := keyboard.NewBuilder().Row(keyboard.Button("« К слоту", "slot:"+slotID))

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID, text, kb.Build()); err != nil {
		h.Logger.Error("Failed to show slot bookings", zap.Error(err))
	}
}
