package service

import (
	"testing"

	"github.com/antonzhd/course_admin_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/model"
)

func newTAService(t *testing.T) (*TAService, *UserService) {
	t.Helper()
	dir := t.TempDir()
	requestRepo, err := repository.NewTARequestRepository(dir)
	require.NoError(t, err)
	prefsRepo, err := repository.NewTAPrefsRepository(dir)
	require.NoError(t, err)
	userRepo, err := repository.NewUserRepository(dir)
	require.NoError(t, err)
	rosterRepo, err := repository.NewRosterRepository(dir)
	require.NoError(t, err)
	rosterTARepo, err := repository.NewRosterTARepository(dir)
	require.NoError(t, err)
	auditRepo, err := repository.NewAuditRepository(dir)
	require.NoError(t, err)

	users := NewUserService(userRepo, rosterRepo, rosterTARepo, zap.NewNop())
	audit := NewAuditService(auditRepo, zap.NewNop())
	return NewTAService(requestRepo, prefsRepo, users, audit, zap.NewNop()), users
}

func TestTARequestLifecycle(t *testing.T) {
	svc, users := newTAService(t)

	status, err := svc.RequestStatus(500)
	require.NoError(t, err)
	assert.Equal(t, "none", status)

	_, err = svc.CreatePending(500, "Пётр", "Петров")
	require.NoError(t, err)

	status, err = svc.RequestStatus(500)
	require.NoError(t, err)
	assert.Equal(t, "pending", status)

	pending, err := svc.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.EqualValues(t, 500, pending[0].TgID)

	ok, err := svc.Approve(1, 500, "TA-03")
	require.NoError(t, err)
	assert.True(t, ok)

	// заявитель стал преподавателем с назначенным кодом
	role, err := users.GetRole(500)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTA, role)

	taID, err := users.TAIDByTg(500)
	require.NoError(t, err)
	assert.Equal(t, "TA-03", taID)

	status, err = svc.RequestStatus(500)
	require.NoError(t, err)
	assert.Equal(t, "approved", status)

	pending, err = svc.ListPending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTARequestReject(t *testing.T) {
	svc, users := newTAService(t)

	_, err := svc.CreatePending(501, "Анна", "Сидорова")
	require.NoError(t, err)

	ok, err := svc.Reject(1, 501)
	require.NoError(t, err)
	assert.True(t, ok)

	status, err := svc.RequestStatus(501)
	require.NoError(t, err)
	assert.Equal(t, "rejected", status)

	// роль не менялась
	role, err := users.GetRole(501)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUnknown, role)
}

func TestRejectWithoutRequest(t *testing.T) {
	svc, _ := newTAService(t)

	ok, err := svc.Reject(1, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrefsDefaults(t *testing.T) {
	svc, _ := newTAService(t)

	p, err := svc.Prefs("TA-01")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocation, p.LastLocation)
	assert.Empty(t, p.LastMeetingLink)
}

func TestPrefsRemembered(t *testing.T) {
	svc, _ := newTAService(t)

	require.NoError(t, svc.RememberLink("TA-01", "https://meet.example.com/room"))
	require.NoError(t, svc.RememberLocation("TA-01", "Ауд. 317"))

	p, err := svc.Prefs("TA-01")
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/room", p.LastMeetingLink)
	assert.Equal(t, "Ауд. 317", p.LastLocation)

	// пустая аудитория откатывается к дефолту
	require.NoError(t, svc.RememberLocation("TA-01", ""))
	p, err = svc.Prefs("TA-01")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocation, p.LastLocation)
}
