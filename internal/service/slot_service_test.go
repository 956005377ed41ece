package service

import (
	"testing"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSlotService(t *testing.T) (*SlotService, *repository.SlotRepository) {
	t.Helper()
	repo, err := repository.NewSlotRepository(t.TempDir())
	require.NoError(t, err)
	return NewSlotService(repo, zap.NewNop()), repo
}

func TestCreateSlotDerivesDuration(t *testing.T) {
	svc, _ := newSlotService(t)

	slot, err := svc.CreateSlot("TA-01", "2030-04-01", "10:00", "10:45",
		model.SlotModeOffline, 2, "ауд. 305", "", 0)
	require.NoError(t, err)

	assert.Equal(t, 45, slot.DurationMin)
	assert.Equal(t, model.SlotStatusFree, slot.Status)
	assert.NotEmpty(t, slot.ID)
	assert.NotEmpty(t, slot.CreatedAt)
}

func TestCreateSlotValidation(t *testing.T) {
	svc, _ := newSlotService(t)

	_, err := svc.CreateSlot("TA-01", "2030-04-01", "11:00", "10:00",
		model.SlotModeOffline, 1, "", "", 0)
	assert.ErrorIs(t, err, ErrBadTimeRange)

	_, err = svc.CreateSlot("TA-01", "2030-04-01", "09:00", "12:00",
		model.SlotModeOffline, 1, "", "", 0)
	assert.ErrorIs(t, err, ErrBadDuration)

	_, err = svc.CreateSlot("TA-01", "2030-04-01", "10:00", "10:30",
		model.SlotModeOffline, 21, "", "", 0)
	assert.ErrorIs(t, err, ErrBadCapacity)
}

func TestCreateSlotRoundTrip(t *testing.T) {
	svc, repo := newSlotService(t)

	want, err := svc.CreateSlot("TA-01", "2030-04-01", "10:00", "10:20",
		model.SlotModeOnline, 3, "", "https://meet.example/1", 0)
	require.NoError(t, err)

	got, err := repo.GetByID(want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *want, *got)
}

func TestCreateWindowDeterminism(t *testing.T) {
	svc, _ := newSlotService(t)

	// 09:00-10:00 по 20 минут — ровно три слота, без пропусков
	res, err := svc.CreateWindow("TA-01", "2030-04-01", "09:00", "10:00", 20, 1,
		model.SlotModeOffline, "ауд. 305", "")
	require.NoError(t, err)

	require.Len(t, res.Created, 3)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, "09:00", res.Created[0].TimeFrom)
	assert.Equal(t, "09:20", res.Created[0].TimeTo)
	assert.Equal(t, "09:20", res.Created[1].TimeFrom)
	assert.Equal(t, "09:40", res.Created[1].TimeTo)
	assert.Equal(t, "09:40", res.Created[2].TimeFrom)
	assert.Equal(t, "10:00", res.Created[2].TimeTo)
}

func TestCreateWindowDiscardsShortRemainder(t *testing.T) {
	svc, _ := newSlotService(t)

	// остаток 09:50-10:00 короче слота и не создаётся
	res, err := svc.CreateWindow("TA-01", "2030-04-01", "09:00", "10:00", 25, 1,
		model.SlotModeOffline, "", "")
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	assert.Equal(t, "09:50", res.Created[1].TimeTo)
}

func TestCreateWindowSkipsConflicts(t *testing.T) {
	svc, _ := newSlotService(t)

	_, err := svc.CreateSlot("TA-01", "2030-04-01", "09:00", "09:30",
		model.SlotModeOffline, 1, "", "", 0)
	require.NoError(t, err)

	res, err := svc.CreateWindow("TA-01", "2030-04-01", "09:15", "10:00", 30, 1,
		model.SlotModeOffline, "", "")
	require.NoError(t, err)

	// 09:15-09:45 пересекается с 09:00-09:30 и пропускается,
	// следующий кандидат не влезает в окно
	assert.Empty(t, res.Created)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "09:15", res.Skipped[0].From)
	assert.Equal(t, "09:45", res.Skipped[0].To)
	assert.Equal(t, "conflict", res.Skipped[0].Reason)
}

func TestCreateWindowConflictDoesNotAbortRest(t *testing.T) {
	svc, _ := newSlotService(t)

	_, err := svc.CreateSlot("TA-01", "2030-04-01", "09:00", "09:30",
		model.SlotModeOffline, 1, "", "", 0)
	require.NoError(t, err)

	res, err := svc.CreateWindow("TA-01", "2030-04-01", "09:00", "10:30", 30, 1,
		model.SlotModeOffline, "", "")
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	require.Len(t, res.Created, 2)
	assert.Equal(t, "09:30", res.Created[0].TimeFrom)
	assert.Equal(t, "10:00", res.Created[1].TimeFrom)
}

func TestCreateWindowCanceledSlotFreesItsRange(t *testing.T) {
	svc, _ := newSlotService(t)

	slot, err := svc.CreateSlot("TA-01", "2030-04-01", "09:00", "09:30",
		model.SlotModeOffline, 1, "", "", 0)
	require.NoError(t, err)
	ok, err := svc.Cancel(slot.ID, "TA-01", "болезнь")
	require.NoError(t, err)
	require.True(t, ok)

	res, err := svc.CreateWindow("TA-01", "2030-04-01", "09:00", "09:30", 30, 1,
		model.SlotModeOffline, "", "")
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
	assert.Empty(t, res.Skipped)
}

func TestCreateWindowValidationIsAtomic(t *testing.T) {
	svc, repo := newSlotService(t)

	_, err := svc.CreateWindow("TA-01", "2030-04-01", "09:00", "16:30", 30, 1,
		model.SlotModeOffline, "", "")
	assert.ErrorIs(t, err, ErrWindowTooLong)

	_, err = svc.CreateWindow("TA-01", "2030-04-01", "09:00", "10:00", 3, 1,
		model.SlotModeOffline, "", "")
	assert.ErrorIs(t, err, ErrBadDuration)

	_, err = svc.CreateWindow("TA-01", "2030-04-01", "09:00", "10:00", 30, 0,
		model.SlotModeOffline, "", "")
	assert.ErrorIs(t, err, ErrBadCapacity)

	// ни одного побочного эффекта
	slots, err := repo.ListByTA("TA-01")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSetOpenAndTerminalCancel(t *testing.T) {
	svc, repo := newSlotService(t)

	slot, err := svc.CreateSlot("TA-01", "2030-04-01", "10:00", "10:30",
		model.SlotModeOffline, 1, "", "", 0)
	require.NoError(t, err)

	ok, err := svc.SetOpen(slot.ID, false)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := repo.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusClosed, got.Status)

	ok, err = svc.SetOpen(slot.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Cancel(slot.ID, "TA-01", "перенос")
	require.NoError(t, err)
	assert.True(t, ok)

	// отмена терминальна: открыть/закрыть отменённый слот нельзя
	ok, err = svc.SetOpen(slot.ID, true)
	require.NoError(t, err)
	assert.False(t, ok)

	// повторная отмена отклоняется и не переписывает поля аудита
	before, err := repo.GetByID(slot.ID)
	require.NoError(t, err)
	ok, err = svc.Cancel(slot.ID, "TA-02", "другая причина")
	require.NoError(t, err)
	assert.False(t, ok)
	after, err := repo.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, *before, *after)
}

func TestSetOpenUnknownSlot(t *testing.T) {
	svc, _ := newSlotService(t)

	ok, err := svc.SetOpen("slt_missing", true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Cancel("slt_missing", "TA-01", "")
	require.NoError(t, err)
	assert.False(t, ok)
}
