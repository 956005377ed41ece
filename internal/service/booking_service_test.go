package service

import (
	"sync"
	"testing"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	slots    *SlotService
	bookings *BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	dir := t.TempDir()
	slotRepo, err := repository.NewSlotRepository(dir)
	require.NoError(t, err)
	bookingRepo, err := repository.NewBookingRepository(dir)
	require.NoError(t, err)
	logger := zap.NewNop()
	return &bookingFixture{
		slots:    NewSlotService(slotRepo, logger),
		bookings: NewBookingService(slotRepo, bookingRepo, logger),
	}
}

func (f *bookingFixture) futureSlot(t *testing.T, capacity int) *model.Slot {
	t.Helper()
	slot, err := f.slots.CreateSlot("TA-01", "2030-04-01", "10:00", "10:30",
		model.SlotModeOffline, capacity, "ауд. 305", "", 0)
	require.NoError(t, err)
	return slot
}

func TestAttemptBookingHappyPath(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.futureSlot(t, 2)

	res, err := f.bookings.AttemptBooking(slot.ID, 1001)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.NotNil(t, res.Booking)
	assert.Equal(t, model.BookingStatusActive, res.Booking.Status)

	count, err := f.bookings.CountActive(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAttemptBookingDuplicateRejected(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.futureSlot(t, 3)

	res, err := f.bookings.AttemptBooking(slot.ID, 1001)
	require.NoError(t, err)
	require.True(t, res.OK)

	res, err = f.bookings.AttemptBooking(slot.ID, 1001)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, RejectDuplicate, res.Reason)

	count, err := f.bookings.CountActive(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAttemptBookingBusyRejected(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.futureSlot(t, 1)

	res, err := f.bookings.AttemptBooking(slot.ID, 1001)
	require.NoError(t, err)
	require.True(t, res.OK)

	res, err = f.bookings.AttemptBooking(slot.ID, 1002)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, RejectBusy, res.Reason)
}

func TestAttemptBookingClosedCanceledPast(t *testing.T) {
	f := newBookingFixture(t)

	closed := f.futureSlot(t, 1)
	ok, err := f.slots.SetOpen(closed.ID, false)
	require.NoError(t, err)
	require.True(t, ok)
	res, err := f.bookings.AttemptBooking(closed.ID, 1001)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, RejectClosed, res.Reason)

	canceled, err := f.slots.CreateSlot("TA-01", "2030-04-01", "11:00", "11:30",
		model.SlotModeOffline, 1, "", "", 0)
	require.NoError(t, err)
	ok, err = f.slots.Cancel(canceled.ID, "TA-01", "")
	require.NoError(t, err)
	require.True(t, ok)
	res, err = f.bookings.AttemptBooking(canceled.ID, 1001)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, RejectCanceled, res.Reason)

	past, err := f.slots.CreateSlot("TA-01", "2020-04-01", "11:00", "11:30",
		model.SlotModeOffline, 1, "", "", 0)
	require.NoError(t, err)
	res, err = f.bookings.AttemptBooking(past.ID, 1001)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, RejectPast, res.Reason)
}

func TestAttemptBookingUnknownSlot(t *testing.T) {
	f := newBookingFixture(t)

	res, err := f.bookings.AttemptBooking("slt_missing", 1001)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, RejectNotFound, res.Reason)
}

func TestCapacityInvariantUnderConcurrency(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.futureSlot(t, 3)

	const attempts = 12
	results := make([]*BookingResult, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			res, err := f.bookings.AttemptBooking(slot.ID, int64(2000+i))
			if err == nil {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, res := range results {
		require.NotNil(t, res)
		if res.OK {
			okCount++
		} else {
			assert.Equal(t, RejectBusy, res.Reason)
		}
	}
	assert.Equal(t, 3, okCount)

	count, err := f.bookings.CountActive(slot.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, slot.Capacity)
	assert.Equal(t, 3, count)
}

func TestCancelBookingFreesSpot(t *testing.T) {
	f := newBookingFixture(t)
	slot := f.futureSlot(t, 1)

	res, err := f.bookings.AttemptBooking(slot.ID, 1001)
	require.NoError(t, err)
	require.True(t, res.OK)

	ok, err := f.bookings.CancelBooking(res.Booking.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// история сохраняется, но место освобождено
	all, err := f.bookings.ListForSlot(slot.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	res, err = f.bookings.AttemptBooking(slot.ID, 1002)
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestCancelBookingUnknown(t *testing.T) {
	f := newBookingFixture(t)

	ok, err := f.bookings.CancelBooking("bkg_missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListViewsForTA(t *testing.T) {
	f := newBookingFixture(t)

	second, err := f.slots.CreateSlot("TA-01", "2030-04-01", "11:00", "11:30",
		model.SlotModeOffline, 2, "", "", 0)
	require.NoError(t, err)
	first := f.futureSlot(t, 2)

	res, err := f.bookings.AttemptBooking(second.ID, 1001)
	require.NoError(t, err)
	require.True(t, res.OK)

	views, err := f.bookings.ListViewsForTA("TA-01")
	require.NoError(t, err)
	require.Len(t, views, 2)

	// сортировка по времени начала
	assert.Equal(t, first.ID, views[0].Slot.ID)
	assert.Equal(t, model.ComputedFreeFull, views[0].Status)
	assert.Equal(t, second.ID, views[1].Slot.ID)
	assert.Equal(t, model.ComputedFreePartial, views[1].Status)
	assert.Equal(t, 1, views[1].FreeSpots())
}

func TestListBookableForTAFiltersOut(t *testing.T) {
	f := newBookingFixture(t)

	open := f.futureSlot(t, 1)
	closed, err := f.slots.CreateSlot("TA-01", "2030-04-01", "11:00", "11:30",
		model.SlotModeOffline, 1, "", "", 0)
	require.NoError(t, err)
	ok, err := f.slots.SetOpen(closed.ID, false)
	require.NoError(t, err)
	require.True(t, ok)

	views, err := f.bookings.ListBookableForTA("TA-01")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, open.ID, views[0].Slot.ID)
}
