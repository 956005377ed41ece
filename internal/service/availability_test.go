package service

import (
	"testing"
	"time"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func testSlot(status model.SlotStatus, capacity int) *model.Slot {
	return &model.Slot{
		ID:       "slt_test",
		TAID:     "TA-01",
		Date:     "2026-03-10",
		TimeFrom: "10:00",
		TimeTo:   "10:30",
		Mode:     model.SlotModeOffline,
		Capacity: capacity,
		Status:   status,
	}
}

func localTime(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.Local)
}

func TestComputeStatusOccupancyThresholds(t *testing.T) {
	now := localTime(9, 0)
	slot := testSlot(model.SlotStatusFree, 3)

	assert.Equal(t, model.ComputedFreeFull, ComputeStatus(slot, 0, now))
	assert.Equal(t, model.ComputedFreePartial, ComputeStatus(slot, 1, now))
	assert.Equal(t, model.ComputedFreePartial, ComputeStatus(slot, 2, now))
	assert.Equal(t, model.ComputedBusy, ComputeStatus(slot, 3, now))
	// переполнение сверх capacity тоже busy
	assert.Equal(t, model.ComputedBusy, ComputeStatus(slot, 4, now))
}

func TestComputeStatusPriority(t *testing.T) {
	past := localTime(11, 0)

	// canceled перекрывает всё, включая прошедшее время и занятость
	canceled := testSlot(model.SlotStatusCanceled, 1)
	assert.Equal(t, model.ComputedCanceled, ComputeStatus(canceled, 1, past))

	// прошедший слот — past независимо от базового статуса и занятости
	closed := testSlot(model.SlotStatusClosed, 1)
	assert.Equal(t, model.ComputedPast, ComputeStatus(closed, 0, past))
	free := testSlot(model.SlotStatusFree, 1)
	assert.Equal(t, model.ComputedPast, ComputeStatus(free, 0, past))

	// closed проверяется после past
	assert.Equal(t, model.ComputedClosed, ComputeStatus(closed, 0, localTime(9, 0)))
}

func TestComputeStatusPastBoundary(t *testing.T) {
	slot := testSlot(model.SlotStatusFree, 1)

	// ровно в момент окончания слот уже past
	assert.Equal(t, model.ComputedPast, ComputeStatus(slot, 0, localTime(10, 30)))
	assert.Equal(t, model.ComputedFreeFull, ComputeStatus(slot, 0, localTime(10, 29)))
}

func TestIsBookable(t *testing.T) {
	assert.True(t, IsBookable(model.ComputedFreeFull))
	assert.True(t, IsBookable(model.ComputedFreePartial))
	assert.False(t, IsBookable(model.ComputedBusy))
	assert.False(t, IsBookable(model.ComputedClosed))
	assert.False(t, IsBookable(model.ComputedCanceled))
	assert.False(t, IsBookable(model.ComputedPast))
}

func TestOverlaps(t *testing.T) {
	// startA < endB && startB < endA
	assert.True(t, Overlaps("09:15", "09:45", "09:00", "09:30"))
	assert.True(t, Overlaps("09:00", "10:00", "09:30", "09:45"))
	// граница впритык — не пересечение
	assert.False(t, Overlaps("09:00", "09:30", "09:30", "10:00"))
	assert.False(t, Overlaps("09:30", "10:00", "09:00", "09:30"))
}

func TestHasConflictIgnoresCanceledAndOtherDates(t *testing.T) {
	existing := []model.Slot{
		{Date: "2026-03-10", TimeFrom: "09:00", TimeTo: "09:30", Status: model.SlotStatusCanceled},
		{Date: "2026-03-11", TimeFrom: "09:00", TimeTo: "09:30", Status: model.SlotStatusFree},
	}

	// отменённый слот освобождает своё время
	assert.False(t, HasConflict(existing, "2026-03-10", "09:00", "09:30"))

	existing = append(existing, model.Slot{
		Date: "2026-03-10", TimeFrom: "09:00", TimeTo: "09:30", Status: model.SlotStatusFree,
	})
	assert.True(t, HasConflict(existing, "2026-03-10", "09:15", "09:45"))
}

func TestRejectReasonFor(t *testing.T) {
	assert.Equal(t, RejectCanceled, RejectReasonFor(model.ComputedCanceled))
	assert.Equal(t, RejectPast, RejectReasonFor(model.ComputedPast))
	assert.Equal(t, RejectClosed, RejectReasonFor(model.ComputedClosed))
	assert.Equal(t, RejectBusy, RejectReasonFor(model.ComputedBusy))
}
