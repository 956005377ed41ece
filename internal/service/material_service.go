package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"

	"github.com/antonzhd/course_admin_bot/internal/filestore"
	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

// MaxMaterialSize — лимит размера файла материала.
const MaxMaterialSize = 100 * 1024 * 1024

var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrMaterialState    = errors.New("material state does not allow this operation")
	ErrSizeLimit        = errors.New("file exceeds size limit")
)

// MaterialDownload — результат скачивания: либо байты файла, либо ссылка.
type MaterialDownload struct {
	Data []byte
	Link string
}

type MaterialService struct {
	materialRepo *repository.MaterialRepository
	storage      filestore.Storage
	audit        *AuditService
	sizeLimit    int64
	logger       *zap.Logger
}

func NewMaterialService(
	materialRepo *repository.MaterialRepository,
	storage filestore.Storage,
	audit *AuditService,
	logger *zap.Logger,
) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		storage:      storage,
		audit:        audit,
		sizeLimit:    MaxMaterialSize,
		logger:       logger,
	}
}

// UploadLink публикует материал-ссылку. Повторная загрузка той же
// ссылки идемпотентна; иная ссылка архивирует прежнюю активную версию.
func (s *MaterialService) UploadLink(week int, mtype model.MaterialType, link string, actorTgID int64) (*model.Material, error) {
	active, err := s.materialRepo.FindActive(week, mtype)
	if err != nil {
		return nil, fmt.Errorf("find active material: %w", err)
	}
	if active != nil && active.Link == link {
		s.audit.Log(actorTgID, "MATERIAL_UPLOAD", active.ID, map[string]any{"idempotent": true})
		return active, nil
	}
	if active != nil {
		if _, err := s.materialRepo.SetState(active.ID, model.MaterialStateArchived); err != nil {
			return nil, fmt.Errorf("archive material: %w", err)
		}
	}

	now := model.NowISO()
	m := model.Material{
		ID:         model.NewID("mat"),
		Week:       week,
		Type:       mtype,
		Visibility: visibilityFor(mtype),
		Link:       link,
		State:      model.MaterialStateActive,
		UploadedBy: actorTgID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.materialRepo.Insert(m); err != nil {
		return nil, fmt.Errorf("insert material: %w", err)
	}
	s.audit.Log(actorTgID, "MATERIAL_UPLOAD", m.ID, map[string]any{"week": week, "link": true})
	return &m, nil
}

// UploadFile публикует материал-файл. Идемпотентность — по sha256:
// те же байты не создают новую версию.
func (s *MaterialService) UploadFile(ctx context.Context, week int, mtype model.MaterialType, data []byte, actorTgID int64) (*model.Material, error) {
	if int64(len(data)) > s.sizeLimit {
		return nil, ErrSizeLimit
	}
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	active, err := s.materialRepo.FindActive(week, mtype)
	if err != nil {
		return nil, fmt.Errorf("find active material: %w", err)
	}
	if active != nil && active.Checksum == checksum {
		s.audit.Log(actorTgID, "MATERIAL_UPLOAD", active.ID, map[string]any{"idempotent": true})
		return active, nil
	}
	if active != nil {
		if _, err := s.materialRepo.SetState(active.ID, model.MaterialStateArchived); err != nil {
			return nil, fmt.Errorf("archive material: %w", err)
		}
	}

	id := model.NewID("mat")
	ref, err := s.storage.SaveBytes(ctx, path.Join("materials", fmt.Sprintf("week%d", week), id), data)
	if err != nil {
		return nil, fmt.Errorf("save material file: %w", err)
	}

	now := model.NowISO()
	m := model.Material{
		ID:         id,
		Week:       week,
		Type:       mtype,
		Visibility: visibilityFor(mtype),
		FileRef:    ref,
		SizeBytes:  int64(len(data)),
		Checksum:   checksum,
		State:      model.MaterialStateActive,
		UploadedBy: actorTgID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.materialRepo.Insert(m); err != nil {
		return nil, fmt.Errorf("insert material: %w", err)
	}

	s.audit.Log(actorTgID, "MATERIAL_UPLOAD", id, map[string]any{"week": week, "size": len(data)})
	s.logger.Info("Material uploaded",
		zap.String("material_id", id),
		zap.Int("week", week),
		zap.String("type", string(mtype)),
	)
	return &m, nil
}

// ListActive возвращает активные материалы недели.
func (s *MaterialService) ListActive(week int) ([]model.Material, error) {
	return s.materialRepo.ListActive(week)
}

// History возвращает все версии материала (week, type).
func (s *MaterialService) History(week int, mtype model.MaterialType) ([]model.Material, error) {
	return s.materialRepo.History(week, mtype)
}

// Download возвращает содержимое материала: байты файла либо ссылку.
func (s *MaterialService) Download(ctx context.Context, materialID string) (*MaterialDownload, error) {
	m, err := s.materialRepo.Get(materialID)
	if err != nil {
		return nil, fmt.Errorf("get material: %w", err)
	}
	if m == nil {
		return nil, ErrMaterialNotFound
	}
	if m.Link != "" {
		return &MaterialDownload{Link: m.Link}, nil
	}
	if m.FileRef == "" {
		return nil, ErrMaterialNotFound
	}
	data, err := s.storage.ReadBytes(ctx, m.FileRef)
	if err != nil {
		return nil, fmt.Errorf("read material file: %w", err)
	}
	return &MaterialDownload{Data: data}, nil
}

// SoftDelete архивирует активный материал.
func (s *MaterialService) SoftDelete(materialID string, actorTgID int64) error {
	m, err := s.materialRepo.Get(materialID)
	if err != nil {
		return fmt.Errorf("get material: %w", err)
	}
	if m == nil {
		return ErrMaterialNotFound
	}
	if m.State != model.MaterialStateActive {
		return ErrMaterialState
	}
	if _, err := s.materialRepo.SetState(materialID, model.MaterialStateArchived); err != nil {
		return fmt.Errorf("archive material: %w", err)
	}
	s.audit.Log(actorTgID, "MATERIAL_SOFT_DELETE", materialID, nil)
	return nil
}

// HardDelete физически удаляет архивную версию.
func (s *MaterialService) HardDelete(materialID string, actorTgID int64) error {
	m, err := s.materialRepo.Get(materialID)
	if err != nil {
		return fmt.Errorf("get material: %w", err)
	}
	if m == nil {
		return ErrMaterialNotFound
	}
	if m.State != model.MaterialStateArchived {
		return ErrMaterialState
	}
	if _, err := s.materialRepo.Delete(materialID); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	s.audit.Log(actorTgID, "MATERIAL_HARD_DELETE", materialID, nil)
	return nil
}

func visibilityFor(mtype model.MaterialType) string {
	if mtype == model.MaterialTypeTeacher {
		return "teacher"
	}
	return "student"
}
