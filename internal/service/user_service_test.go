package service

import (
	"testing"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(t *testing.T) (*UserService, *repository.RosterRepository) {
	t.Helper()
	dir := t.TempDir()
	userRepo, err := repository.NewUserRepository(dir)
	require.NoError(t, err)
	rosterRepo, err := repository.NewRosterRepository(dir)
	require.NoError(t, err)
	rosterTARepo, err := repository.NewRosterTARepository(dir)
	require.NoError(t, err)
	return NewUserService(userRepo, rosterRepo, rosterTARepo, zap.NewNop()), rosterRepo
}

func seedRoster(t *testing.T, repo *repository.RosterRepository) {
	t.Helper()
	require.NoError(t, repo.UpsertByStudentCode(model.RosterEntry{
		StudentCode: "S-101",
		Email:       "ivanov@example.edu",
		LastName:    "Иванов",
		FirstName:   "Иван",
		Group:       "Б01-234",
	}))
}

func TestRegisterStudentByEmail(t *testing.T) {
	svc, rosterRepo := newUserService(t)
	seedRoster(t, rosterRepo)

	user, err := svc.RegisterStudent(1001, "Ivanov@example.edu ", "Иван", "Иванов", "ivanov")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Equal(t, "S-101", user.Code)

	// строка ростера привязана
	entry, err := rosterRepo.GetByTgID(1001)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "S-101", entry.StudentCode)

	role, err := svc.GetRole(1001)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, role)
}

func TestRegisterStudentUnknownEmail(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.RegisterStudent(1001, "nobody@example.edu", "", "", "")
	assert.ErrorIs(t, err, ErrEmailNotInRoster)
}

func TestRegisterStudentRelinkRejected(t *testing.T) {
	svc, rosterRepo := newUserService(t)
	seedRoster(t, rosterRepo)

	_, err := svc.RegisterStudent(1001, "ivanov@example.edu", "", "", "")
	require.NoError(t, err)

	// тот же код — другой tg: запрещено
	_, err = svc.RegisterStudent(2002, "ivanov@example.edu", "", "", "")
	assert.ErrorIs(t, err, ErrCodeAlreadyLinked)

	// повторная регистрация тем же tg идемпотентна
	_, err = svc.RegisterStudent(1001, "ivanov@example.edu", "", "", "")
	assert.NoError(t, err)
}

func TestEnsureOwnerAndTAResolution(t *testing.T) {
	svc, _ := newUserService(t)

	require.NoError(t, svc.EnsureOwner(9000))
	role, err := svc.GetRole(9000)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, role)

	// owner трактуется как TA
	taID, err := svc.TAIDByTg(9000)
	require.NoError(t, err)
	assert.Equal(t, "TA-00", taID)

	tg, err := svc.TgByTAID("TA-00")
	require.NoError(t, err)
	assert.Equal(t, int64(9000), tg)

	// повторный вызов ничего не ломает
	require.NoError(t, svc.EnsureOwner(9000))
}

func TestPromoteToTA(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.PromoteToTA(5000, "TA-07", "Пётр", "Петров", "petrov")
	require.NoError(t, err)

	taID, err := svc.TAIDByTg(5000)
	require.NoError(t, err)
	assert.Equal(t, "TA-07", taID)

	// студент не резолвится как TA
	taID, err = svc.TAIDByTg(12345)
	require.NoError(t, err)
	assert.Empty(t, taID)
}
