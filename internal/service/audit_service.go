package service

import (
	"encoding/json"
	"fmt"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

// AuditService — append-only журнал административных действий.
type AuditService struct {
	auditRepo *repository.AuditRepository
	logger    *zap.Logger
}

func NewAuditService(auditRepo *repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{auditRepo: auditRepo, logger: logger}
}

// Log пишет событие в журнал. Ошибка журнала не должна ронять
// действие пользователя, поэтому она только логируется.
func (s *AuditService) Log(actorTgID int64, action, target string, meta map[string]any) {
	metaJSON := "{}"
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			s.logger.Warn("Failed to marshal audit meta", zap.String("action", action), zap.Error(err))
		} else {
			metaJSON = string(raw)
		}
	}

	event := model.AuditEvent{
		ID:        model.NewID("evt"),
		TS:        model.NowISO(),
		ActorTgID: actorTgID,
		Action:    action,
		Target:    target,
		MetaJSON:  metaJSON,
	}
	if err := s.auditRepo.Insert(event); err != nil {
		s.logger.Error("Failed to write audit event",
			zap.String("action", action),
			zap.Int64("actor_tg_id", actorTgID),
			zap.Error(err),
		)
	}
}

// LogErr — вариант для мест, где ошибку журнала нужно вернуть наверх.
func (s *AuditService) LogErr(actorTgID int64, action, target string, meta map[string]any) error {
	metaJSON := "{}"
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal audit meta: %w", err)
		}
		metaJSON = string(raw)
	}
	return s.auditRepo.Insert(model.AuditEvent{
		ID:        model.NewID("evt"),
		TS:        model.NowISO(),
		ActorTgID: actorTgID,
		Action:    action,
		Target:    target,
		MetaJSON:  metaJSON,
	})
}
