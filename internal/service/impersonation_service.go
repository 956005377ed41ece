package service

import (
	"sync"

	"go.uber.org/zap"
)

// ImpersonationService позволяет владельцу временно действовать от
// имени другого пользователя. Сессии живут в памяти и не переживают
// перезапуск бота. Каждый вход и выход фиксируется в аудите.
type ImpersonationService struct {
	mu       sync.RWMutex
	sessions map[int64]int64 // owner tg -> target tg
	audit    *AuditService
	logger   *zap.Logger
}

func NewImpersonationService(audit *AuditService, logger *zap.Logger) *ImpersonationService {
	return &ImpersonationService{
		sessions: make(map[int64]int64),
		audit:    audit,
		logger:   logger,
	}
}

// Start начинает сессию имперсонации владельцем targetTgID.
func (s *ImpersonationService) Start(ownerTgID, targetTgID int64) {
	s.mu.Lock()
	s.sessions[ownerTgID] = targetTgID
	s.mu.Unlock()

	s.audit.Log(ownerTgID, "IMPERSONATE_START", "", map[string]any{"target_tg": targetTgID})
	s.logger.Info("Impersonation started",
		zap.Int64("owner_tg", ownerTgID),
		zap.Int64("target_tg", targetTgID),
	)
}

// Stop завершает сессию. Возвращает false, если сессии не было.
func (s *ImpersonationService) Stop(ownerTgID int64) bool {
	s.mu.Lock()
	target, ok := s.sessions[ownerTgID]
	delete(s.sessions, ownerTgID)
	s.mu.Unlock()

	if !ok {
		return false
	}

	s.audit.Log(ownerTgID, "IMPERSONATE_STOP", "", map[string]any{"target_tg": target})
	return true
}

// Target возвращает tg id имперсонируемого пользователя, если сессия активна.
func (s *ImpersonationService) Target(ownerTgID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	target, ok := s.sessions[ownerTgID]
	return target, ok
}

// Effective возвращает действующий tg id: цель сессии либо сам пользователь.
func (s *ImpersonationService) Effective(tgID int64) int64 {
	if target, ok := s.Target(tgID); ok {
		return target
	}
	return tgID
}
