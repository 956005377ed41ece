package service

import (
	"context"
	"testing"

	"github.com/antonzhd/course_admin_bot/internal/filestore"
	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMaterialService(t *testing.T) *MaterialService {
	t.Helper()
	dir := t.TempDir()
	repo, err := repository.NewMaterialRepository(dir)
	require.NoError(t, err)
	auditRepo, err := repository.NewAuditRepository(dir)
	require.NoError(t, err)
	store, err := filestore.NewLocalDisk(dir + "/storage")
	require.NoError(t, err)
	logger := zap.NewNop()
	return NewMaterialService(repo, store, NewAuditService(auditRepo, logger), logger)
}

func TestMaterialUploadIdempotentAndVersioned(t *testing.T) {
	svc := newMaterialService(t)
	ctx := context.Background()

	m1, err := svc.UploadFile(ctx, 1, model.MaterialTypeStudent, []byte("hello"), 42)
	require.NoError(t, err)

	active, err := svc.ListActive(1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, m1.ID, active[0].ID)

	// те же байты — та же версия, истории не прибавляется
	m1b, err := svc.UploadFile(ctx, 1, model.MaterialTypeStudent, []byte("hello"), 42)
	require.NoError(t, err)
	assert.Equal(t, m1.ID, m1b.ID)
	hist, err := svc.History(1, model.MaterialTypeStudent)
	require.NoError(t, err)
	assert.Len(t, hist, 1)

	// новые байты архивируют прежнюю активную версию
	m2, err := svc.UploadFile(ctx, 1, model.MaterialTypeStudent, []byte("world"), 42)
	require.NoError(t, err)
	require.NotEqual(t, m1.ID, m2.ID)

	active, err = svc.ListActive(1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, m2.ID, active[0].ID)

	hist, err = svc.History(1, model.MaterialTypeStudent)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}

func TestMaterialLinkUpload(t *testing.T) {
	svc := newMaterialService(t)

	m1, err := svc.UploadLink(2, model.MaterialTypeTeacher, "https://example.com/w2", 42)
	require.NoError(t, err)
	assert.Equal(t, "teacher", m1.Visibility)

	m1b, err := svc.UploadLink(2, model.MaterialTypeTeacher, "https://example.com/w2", 42)
	require.NoError(t, err)
	assert.Equal(t, m1.ID, m1b.ID)

	dl, err := svc.Download(context.Background(), m1.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/w2", dl.Link)
}

func TestMaterialDownloadFile(t *testing.T) {
	svc := newMaterialService(t)
	ctx := context.Background()

	m, err := svc.UploadFile(ctx, 3, model.MaterialTypeStudent, []byte("payload"), 42)
	require.NoError(t, err)

	dl, err := svc.Download(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), dl.Data)

	_, err = svc.Download(ctx, "mat_missing")
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestMaterialDeleteStateMachine(t *testing.T) {
	svc := newMaterialService(t)
	ctx := context.Background()

	m, err := svc.UploadFile(ctx, 4, model.MaterialTypeStudent, []byte("x"), 42)
	require.NoError(t, err)

	// hard delete активной версии запрещён
	assert.ErrorIs(t, svc.HardDelete(m.ID, 42), ErrMaterialState)

	require.NoError(t, svc.SoftDelete(m.ID, 42))
	// повторный soft delete — ошибка состояния
	assert.ErrorIs(t, svc.SoftDelete(m.ID, 42), ErrMaterialState)

	require.NoError(t, svc.HardDelete(m.ID, 42))
	assert.ErrorIs(t, svc.SoftDelete(m.ID, 42), ErrMaterialNotFound)
}

func TestMaterialSizeLimit(t *testing.T) {
	svc := newMaterialService(t)
	svc.sizeLimit = 4

	_, err := svc.UploadFile(context.Background(), 1, model.MaterialTypeStudent, []byte("12345"), 42)
	assert.ErrorIs(t, err, ErrSizeLimit)
}
