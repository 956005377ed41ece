package service

import (
	"testing"

	"github.com/antonzhd/course_admin_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newImpersonation(t *testing.T) (*ImpersonationService, *repository.AuditRepository) {
	t.Helper()
	auditRepo, err := repository.NewAuditRepository(t.TempDir())
	require.NoError(t, err)
	audit := NewAuditService(auditRepo, zap.NewNop())
	return NewImpersonationService(audit, zap.NewNop()), auditRepo
}

func TestImpersonationSession(t *testing.T) {
	svc, _ := newImpersonation(t)

	// без сессии действующий id совпадает с собственным
	assert.EqualValues(t, 42, svc.Effective(42))

	svc.Start(1, 42)
	assert.EqualValues(t, 42, svc.Effective(1))

	target, ok := svc.Target(1)
	require.True(t, ok)
	assert.EqualValues(t, 42, target)

	// сессия не влияет на других пользователей
	assert.EqualValues(t, 7, svc.Effective(7))

	assert.True(t, svc.Stop(1))
	assert.EqualValues(t, 1, svc.Effective(1))
	assert.False(t, svc.Stop(1))
}

func TestImpersonationAudited(t *testing.T) {
	svc, auditRepo := newImpersonation(t)

	svc.Start(1, 42)
	svc.Stop(1)

	events, err := auditRepo.ListAll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "IMPERSONATE_START", events[0].Action)
	assert.Equal(t, "IMPERSONATE_STOP", events[1].Action)
}
