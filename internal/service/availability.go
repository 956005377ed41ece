package service

import (
	"time"

	"github.com/antonzhd/course_admin_bot/internal/model"
)

// RejectReason — причина отказа в бронировании. Отказ — штатный
// результат, а не ошибка.
type RejectReason string

const (
	RejectBusy      RejectReason = "busy"
	RejectClosed    RejectReason = "closed"
	RejectCanceled  RejectReason = "canceled"
	RejectPast      RejectReason = "past"
	RejectDuplicate RejectReason = "duplicate"
	RejectNotFound  RejectReason = "not_found"
)

// ComputeStatus выводит статус слота из базового статуса, текущего
// времени и занятости. Приоритет: canceled > past > closed > занятость.
// Статус нигде не сохраняется — всегда вычисляется заново.
func ComputeStatus(slot *model.Slot, activeCount int, now time.Time) model.ComputedStatus {
	if slot.Status == model.SlotStatusCanceled {
		return model.ComputedCanceled
	}
	if end, err := model.CombineLocal(slot.Date, slot.TimeTo); err == nil && !now.Before(end) {
		return model.ComputedPast
	}
	if slot.Status == model.SlotStatusClosed {
		return model.ComputedClosed
	}
	freeSpots := slot.Capacity - activeCount
	switch {
	case freeSpots <= 0:
		return model.ComputedBusy
	case activeCount == 0:
		return model.ComputedFreeFull
	default:
		return model.ComputedFreePartial
	}
}

// IsBookable — можно ли принять ещё одну бронь при таком статусе.
func IsBookable(status model.ComputedStatus) bool {
	return status == model.ComputedFreeFull || status == model.ComputedFreePartial
}

// RejectReasonFor переводит небронируемый статус в причину отказа.
func RejectReasonFor(status model.ComputedStatus) RejectReason {
	switch status {
	case model.ComputedCanceled:
		return RejectCanceled
	case model.ComputedPast:
		return RejectPast
	case model.ComputedClosed:
		return RejectClosed
	default:
		return RejectBusy
	}
}

// Overlaps — пересекаются ли два интервала времени суток HH:MM.
// Сравнение строковое: формат фиксированной ширины сортируется лексикографически.
func Overlaps(aFrom, aTo, bFrom, bTo string) bool {
	return aFrom < bTo && bFrom < aTo
}

// HasConflict проверяет кандидата против существующих слотов владельца
// на дату. Отменённые слоты освобождают своё время и не учитываются.
func HasConflict(existing []model.Slot, date, from, to string) bool {
	for _, s := range existing {
		if s.Date != date || s.Status == model.SlotStatusCanceled {
			continue
		}
		if Overlaps(from, to, s.TimeFrom, s.TimeTo) {
			return true
		}
	}
	return false
}
