package formatting

import (
	"fmt"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/service"
)

// StatusDisplay представляет отображение вычисленного статуса слота
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetStatusDisplay возвращает emoji и текст для вычисленного статуса слота
func GetStatusDisplay(status model.ComputedStatus) StatusDisplay {
	displays := map[model.ComputedStatus]StatusDisplay{
		model.ComputedFreeFull:    {"🟢", "Свободен"},
		model.ComputedFreePartial: {"🟡", "Есть места"},
		model.ComputedBusy:        {"🔴", "Занят"},
		model.ComputedClosed:      {"🔒", "Закрыт"},
		model.ComputedPast:        {"⏰", "Прошёл"},
		model.ComputedCanceled:    {"⚫️", "Отменён"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// FormatSlotLine форматирует слот в одну строку для списков
func FormatSlotLine(v *service.SlotView) string {
	display := GetStatusDisplay(v.Status)
	return fmt.Sprintf("%s %s %s–%s (%d/%d) — %s",
		display.Emoji,
		v.Slot.Date,
		v.Slot.TimeFrom,
		v.Slot.TimeTo,
		v.ActiveCount,
		v.Slot.Capacity,
		display.Text,
	)
}

// FormatSlotCard форматирует подробную карточку слота
func FormatSlotCard(v *service.SlotView) string {
	display := GetStatusDisplay(v.Status)

	text := fmt.Sprintf(
		"📅 Дата: %s\n"+
			"🕐 Время: %s–%s\n"+
			"📊 Статус: %s %s\n"+
			"👥 Записано: %d из %d",
		v.Slot.Date,
		v.Slot.TimeFrom,
		v.Slot.TimeTo,
		display.Emoji,
		display.Text,
		v.ActiveCount,
		v.Slot.Capacity,
	)

	if v.Slot.Mode == model.SlotModeOffline && v.Slot.Location != "" {
		text += "\n📍 Место: " + v.Slot.Location
	}
	if v.Slot.Mode == model.SlotModeOnline && v.Slot.MeetingLink != "" {
		text += "\n🔗 Ссылка: " + v.Slot.MeetingLink
	}

	return text
}

// FormatModeTitle возвращает человекочитаемое название формата слота
func FormatModeTitle(mode model.SlotMode) string {
	if mode == model.SlotModeOnline {
		return "онлайн"
	}
	return "очно"
}

// RejectMessage возвращает пользовательское сообщение для причины отказа в записи
func RejectMessage(reason service.RejectReason) string {
	switch reason {
	case service.RejectBusy:
		return "😔 Все места в этом слоте уже заняты"
	case service.RejectClosed:
		return "🔒 Запись в этот слот закрыта"
	case service.RejectCanceled:
		return "⚫️ Этот слот отменён преподавателем"
	case service.RejectPast:
		return "⏰ Этот слот уже прошёл"
	case service.RejectDuplicate:
		return "ℹ️ Вы уже записаны в этот слот"
	case service.RejectNotFound:
		return "❌ Слот не найден"
	default:
		return "❌ Запись не удалась"
	}
}
