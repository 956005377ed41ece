package student

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
	"github.com/antonzhd/course_admin_bot/internal/service"
)

// HandleTAList показывает список преподавателей для записи
func HandleTAList(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	tas, err := h.UserService.ListRosterTAs()
	if err != nil {
		h.Logger.Error("Failed to list TAs", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	if len(tas) == 0 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Список преподавателей пока пуст")
		return
	}

	kb := keyboard.NewBuilder()
	for _, ta := range tas {
		kb.Row(keyboard.Button("👨‍🏫 "+ta.FullName(), "ta_dates:"+ta.TAID))
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		"Выберите преподавателя:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show TA list", zap.Error(err))
	}
}

// HandleTADates показывает даты, на которые у преподавателя есть свободные слоты
func HandleTADates(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	taID := common.CallbackArg(callback.Data, "ta_dates:")

	views, err := h.BookingService.ListBookableForTA(taID)
	if err != nil {
		h.Logger.Error("Failed to list bookable slots", zap.String("ta_id", taID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	// Даты в порядке появления: ListBookableForTA отдаёт слоты отсортированными
	var dates []string
	seen := make(map[string]bool)
	for _, v := range views {
		if !seen[v.Slot.Date] {
			seen[v.Slot.Date] = true
			dates = append(dates, v.Slot.Date)
		}
	}

	if len(dates) == 0 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "У этого преподавателя нет свободных слотов")
		return
	}

	kb := keyboard.NewBuilder()
	for _, d := range dates {
		kb.Row(keyboard.Button("📅 "+d, "ta_slots:"+taID+":"+d))
	}
	kb.Row(keyboard.Button("« Назад", "ta_list"))

	name := h.UserService.RosterTAName(taID)
	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		fmt.Sprintf("%s\n\nВыберите дату:", name), kb.Build()); err != nil {
		h.Logger.Error("Failed to show TA dates", zap.Error(err))
	}
}

// HandleTASlots показывает свободные слоты преподавателя на выбранную дату
func HandleTASlots(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	args := common.CallbackArgs(callback.Data, "ta_slots:")
	if len(args) != 2 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}
	taID, date := args[0], args[1]

	views, err := h.BookingService.ListBookableForTA(taID)
	if err != nil {
		h.Logger.Error("Failed to list bookable slots", zap.String("ta_id", taID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	kb := keyboard.NewBuilder()
	count := 0
	for i := range views {
		v := &views[i]
		if v.Slot.Date != date {
			continue
		}
		label := fmt.Sprintf("%s–%s (%s, свободно %d)",
			v.Slot.TimeFrom, v.Slot.TimeTo,
			formatting.FormatModeTitle(v.Slot.Mode), v.FreeSpots())
		kb.Row(keyboard.Button(label, "book:"+v.Slot.ID))
		count++
	}

	if count == 0 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "На эту дату свободных слотов не осталось")
		return
	}
	kb.Row(keyboard.Button("« Назад", "ta_dates:"+taID))

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		"Слоты на "+date+":", kb.Build()); err != nil {
		h.Logger.Error("Failed to show TA slots", zap.Error(err))
	}
}

// HandleBook записывает студента в слот
func HandleBook(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	slotID := common.CallbackArg(callback.Data, "book:")
	studentTg := h.EffectiveTgID(callback.From.ID)

	result, err := h.BookingService.AttemptBooking(slotID, studentTg)
	if err != nil {
		h.Logger.Error("Booking attempt failed", zap.String("slot_id", slotID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	if !result.OK {
		common.AnswerCallbackAlert(ctx, b, callback.ID, formatting.RejectMessage(result.Reason))
		return
	}

	slot, err := h.SlotService.GetByID(slotID)
	if err != nil || slot == nil {
		common.AnswerCallback(ctx, b, callback.ID, "✅ Вы записаны")
		return
	}

	text := "✅ Вы записаны!\n\n" +
		fmt.Sprintf("📅 %s, %s–%s\n", slot.Date, slot.TimeFrom, slot.TimeTo) +
		"👨‍🏫 " + h.UserService.RosterTAName(slot.TAID)
	if slot.Mode == model.SlotModeOnline && slot.MeetingLink != "" {
		text += "\n🔗 " + slot.MeetingLink
	}
	if slot.Mode == model.SlotModeOffline && slot.Location != "" {
		text += "\n📍 " + slot.Location
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID, text, nil); err != nil {
		h.Logger.Error("Failed to show booking confirmation", zap.Error(err))
	}
}

// HandleMyBookings показывает активные записи студента с кнопками отмены
func HandleMyBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	studentTg := h.EffectiveTgID(callback.From.ID)

	bookings, err := h.BookingService.ListStudentBookings(studentTg)
	if err != nil {
		h.Logger.Error("Failed to list student bookings", zap.Int64("tg_id", studentTg), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	var active []service.StudentBooking
	for _, sb := range bookings {
		if sb.Booking.Status == model.BookingStatusActive {
			active = append(active, sb)
		}
	}

	if len(active) == 0 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "У вас нет активных записей")
		return
	}

	kb := keyboard.NewBuilder()
	text := "Ваши записи:\n"
	for _, sb := range active {
		if sb.Slot == nil {
			continue
		}
		text += fmt.Sprintf("\n📅 %s %s–%s — %s",
			sb.Slot.Date, sb.Slot.TimeFrom, sb.Slot.TimeTo,
			h.UserService.RosterTAName(sb.Slot.TAID))
		kb.Row(keyboard.Button(
			fmt.Sprintf("❌ Отменить %s %s", sb.Slot.Date, sb.Slot.TimeFrom),
			"cancel_booking:"+sb.Booking.ID))
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID, text, kb.Build()); err != nil {
		h.Logger.Error("Failed to show bookings", zap.Error(err))
	}
}

// HandleCancelBooking отменяет запись студента
func HandleCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	bookingID := common.CallbackArg(callback.Data, "cancel_booking:")

	ok, err := h.BookingService.CancelBooking(bookingID)
	if err != nil {
		h.Logger.Error("Failed to cancel booking", zap.String("booking_id", bookingID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}
	if !ok {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrBookingNotFound))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "Запись отменена")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		"✅ Запись отменена. Слот снова доступен другим студентам.", nil); err != nil {
		h.Logger.Error("Failed to confirm cancellation", zap.Error(err))
	}
}
