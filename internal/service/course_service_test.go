package service

import (
	"testing"
	"time"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCourseService(t *testing.T, week1Deadline time.Time) *CourseService {
	t.Helper()
	dir := t.TempDir()
	weekRepo, err := repository.NewWeekRepository(dir)
	require.NoError(t, err)
	taskRepo, err := repository.NewTaskRepository(dir)
	require.NoError(t, err)
	return NewCourseService(weekRepo, taskRepo, week1Deadline, zap.NewNop())
}

func TestDeadlineAnchoredToFirstWeek(t *testing.T) {
	anchor := time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local)
	svc := newCourseService(t, anchor)

	assert.Equal(t, anchor, svc.Deadline(1))
	assert.Equal(t, anchor.AddDate(0, 0, 7), svc.Deadline(2))
	assert.Equal(t, anchor.AddDate(0, 0, 28), svc.Deadline(5))
}

func TestImportWeeksReplacesCatalog(t *testing.T) {
	svc := newCourseService(t, time.Now())

	require.NoError(t, svc.ImportWeeks([]model.Week{
		{Number: 2, Title: "Протоколы"},
		{Number: 1, Title: "Введение"},
	}))

	weeks, err := svc.ListWeeks()
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	// отсортированы по номеру
	assert.Equal(t, 1, weeks[0].Week.Number)
	assert.Equal(t, 2, weeks[1].Week.Number)

	require.NoError(t, svc.ImportWeeks([]model.Week{
		{Number: 1, Title: "Новое введение"},
	}))

	weeks, err = svc.ListWeeks()
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, "Новое введение", weeks[0].Week.Title)
}

func TestCurrentWeeksSkipsOverdue(t *testing.T) {
	// якорь в прошлом: недели 1 и 2 просрочены, 3..6 актуальны
	anchor := time.Now().AddDate(0, 0, -10)
	svc := newCourseService(t, anchor)

	var weeks []model.Week
	for n := 1; n <= 6; n++ {
		weeks = append(weeks, model.Week{Number: n, Title: "Неделя"})
	}
	require.NoError(t, svc.ImportWeeks(weeks))

	current, err := svc.CurrentWeeks()
	require.NoError(t, err)
	require.Len(t, current, 3)
	assert.Equal(t, 3, current[0].Week.Number)
	assert.Equal(t, 4, current[1].Week.Number)
	assert.Equal(t, 5, current[2].Week.Number)
	for _, w := range current {
		assert.False(t, w.Overdue)
	}
}

func TestOverdueStartsDayAfterDeadline(t *testing.T) {
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	// дедлайн первой недели — сегодня: ещё не просрочено
	svc := newCourseService(t, today)
	require.NoError(t, svc.ImportWeeks([]model.Week{{Number: 1, Title: "Неделя"}}))
	info, err := svc.GetWeek(1)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.False(t, info.Overdue)

	// дедлайн вчера: просрочено
	svc = newCourseService(t, today.AddDate(0, 0, -1))
	require.NoError(t, svc.ImportWeeks([]model.Week{{Number: 1, Title: "Неделя"}}))
	info, err = svc.GetWeek(1)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.Overdue)
}

func TestTasksPerWeek(t *testing.T) {
	svc := newCourseService(t, time.Now())

	task, err := svc.AddTask(3, "Лабораторная 3", "2026-10-01", 10, "")
	require.NoError(t, err)
	_, err = svc.AddTask(4, "Лабораторная 4", "2026-10-08", 10, "")
	require.NoError(t, err)

	got, err := svc.GetTask(task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Лабораторная 3", got.Title)

	forWeek, err := svc.ListTasksForWeek(3)
	require.NoError(t, err)
	require.Len(t, forWeek, 1)
	assert.Equal(t, task.ID, forWeek[0].ID)

	missing, err := svc.GetTask("tsk_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
