package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/callbacktypes"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/owner"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/student"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/teacher"
)

// ========================
// Callback Data Patterns
// ========================

// Студент: запись на слоты и просмотр
const (
	TAList        = "ta_list"
	TADates       = "ta_dates:"       // ta_dates:TA-01
	TASlots       = "ta_slots:"       // ta_slots:TA-01:2026-09-07
	BookSlot      = "book:"           // book:slt_<uuid>
	MyBookings    = "my_bookings"
	CancelBooking = "cancel_booking:" // cancel_booking:bkg_<uuid>
	MaterialsWeek = "materials_week:" // materials_week:3
	MaterialGet   = "material_get:"   // material_get:mat_<uuid>
)

// Преподаватель: управление слотами
const (
	MySlots      = "myslots"
	MySlotsDate  = "myslots_date:"  // myslots_date:2026-09-07
	SlotCard     = "slot:"          // slot:slt_<uuid>
	SlotOpen     = "slot_open:"     // slot_open:slt_<uuid>
	SlotClose    = "slot_close:"    // slot_close:slt_<uuid>
	SlotCancel   = "slot_cancel:"   // slot_cancel:slt_<uuid>
	SlotBookings = "slot_bookings:" // slot_bookings:slt_<uuid>
	SlotFormMode = "slot_mode:"     // slot_mode:online | slot_mode:offline
	MaterialType = "matype:"        // matype:student | matype:teacher
)

// Владелец: заявки на роль преподавателя
const (
	RequestApprove = "req_approve:" // req_approve:<tg_id>
	RequestAssign  = "req_assign:"  // req_assign:<tg_id>:TA-03
	RequestReject  = "req_reject:"  // req_reject:<tg_id>
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == "noop":
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Студент: запись =====
	case data == TAList:
		student.HandleTAList(ctx, b, callback, h)
	case strings.HasPrefix(data, TADates):
		student.HandleTADates(ctx, b, callback, h)
	case strings.HasPrefix(data, TASlots):
		student.HandleTASlots(ctx, b, callback, h)
	case strings.HasPrefix(data, BookSlot):
		student.HandleBook(ctx, b, callback, h)
	case data == MyBookings:
		student.HandleMyBookings(ctx, b, callback, h)
	case strings.HasPrefix(data, CancelBooking):
		student.HandleCancelBooking(ctx, b, callback, h)

	// ===== Студент: материалы =====
	case strings.HasPrefix(data, MaterialsWeek):
		student.HandleMaterialsWeek(ctx, b, callback, h)
	case strings.HasPrefix(data, MaterialGet):
		student.HandleMaterialGet(ctx, b, callback, h)

	// ===== Преподаватель: слоты =====
	case data == MySlots:
		teacher.HandleMySlots(ctx, b, callback, h)
	case strings.HasPrefix(data, MySlotsDate):
		teacher.HandleMySlotsDate(ctx, b, callback, h)
	case strings.HasPrefix(data, SlotCard):
		teacher.HandleSlotCard(ctx, b, callback, h)
	case strings.HasPrefix(data, SlotOpen):
		teacher.HandleSlotOpen(ctx, b, callback, h)
	case strings.HasPrefix(data, SlotClose):
		teacher.HandleSlotClose(ctx, b, callback, h)
	case strings.HasPrefix(data, SlotCancel):
		teacher.HandleSlotCancelStart(ctx, b, callback, h)
	case strings.HasPrefix(data, SlotBookings):
		teacher.HandleSlotBookings(ctx, b, callback, h)
	case strings.HasPrefix(data, SlotFormMode):
		teacher.HandleSlotFormMode(ctx, b, callback, h)
	case strings.HasPrefix(data, MaterialType):
		teacher.HandleMaterialType(ctx, b, callback, h)

	// ===== Владелец: заявки =====
	case strings.HasPrefix(data, RequestApprove):
		owner.HandleRequestApprove(ctx, b, callback, h)
	case strings.HasPrefix(data, RequestAssign):
		owner.HandleRequestAssign(ctx, b, callback, h)
	case strings.HasPrefix(data, RequestReject):
		owner.HandleRequestReject(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback data", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "")
	}
}
