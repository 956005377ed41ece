package service

import (
	"fmt"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

// DefaultLocation подставляется в офлайн-слоты, пока TA не указал своё.
const DefaultLocation = "Аудитория по расписанию"

// TAService — заявки на роль TA и пользовательские предпочтения формы слотов.
type TAService struct {
	requestRepo *repository.TARequestRepository
	prefsRepo   *repository.TAPrefsRepository
	users       *UserService
	audit       *AuditService
	logger      *zap.Logger
}

func NewTAService(
	requestRepo *repository.TARequestRepository,
	prefsRepo *repository.TAPrefsRepository,
	users *UserService,
	audit *AuditService,
	logger *zap.Logger,
) *TAService {
	return &TAService{
		requestRepo: requestRepo,
		prefsRepo:   prefsRepo,
		users:       users,
		audit:       audit,
		logger:      logger,
	}
}

// RequestStatus возвращает статус последней заявки, "none" если заявок нет.
func (s *TAService) RequestStatus(tgID int64) (string, error) {
	req, err := s.requestRepo.GetByTgID(tgID)
	if err != nil {
		return "", err
	}
	if req == nil {
		return "none", nil
	}
	return string(req.Status), nil
}

// CreatePending регистрирует новую заявку на роль TA.
func (s *TAService) CreatePending(tgID int64, firstName, lastName string) (*model.TARequest, error) {
	req := model.TARequest{
		ID:        model.NewID("tar"),
		TgID:      tgID,
		Status:    model.TARequestPending,
		CreatedAt: model.NowISO(),
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.requestRepo.Insert(req); err != nil {
		return nil, fmt.Errorf("create ta request: %w", err)
	}
	s.logger.Info("TA request created", zap.Int64("tg_id", tgID))
	return &req, nil
}

// ListPending возвращает нерешённые заявки для экрана владельца.
func (s *TAService) ListPending() ([]model.TARequest, error) {
	return s.requestRepo.ListPending()
}

// Approve одобряет заявку: заявитель получает роль TA и код taID.
func (s *TAService) Approve(actorTgID, applicantTgID int64, taID string) (bool, error) {
	req, err := s.requestRepo.GetByTgID(applicantTgID)
	if err != nil {
		return false, err
	}
	if req == nil {
		return false, nil
	}
	if _, err := s.requestRepo.SetStatus(applicantTgID, model.TARequestApproved); err != nil {
		return false, fmt.Errorf("approve ta request: %w", err)
	}
	if _, err := s.users.PromoteToTA(applicantTgID, taID, req.FirstName, req.LastName, ""); err != nil {
		return false, err
	}
	s.audit.Log(actorTgID, "TA_REQUEST_APPROVE", fmt.Sprintf("tg:%d", applicantTgID),
		map[string]any{"ta_id": taID})
	return true, nil
}

// Reject отклоняет заявку.
func (s *TAService) Reject(actorTgID, applicantTgID int64) (bool, error) {
	found, err := s.requestRepo.SetStatus(applicantTgID, model.TARequestRejected)
	if err != nil {
		return false, fmt.Errorf("reject ta request: %w", err)
	}
	if found {
		s.audit.Log(actorTgID, "TA_REQUEST_REJECT", fmt.Sprintf("tg:%d", applicantTgID), nil)
	}
	return found, nil
}

// Prefs возвращает предпочтения TA с дефолтами для новых.
func (s *TAService) Prefs(taID string) (model.TAPrefs, error) {
	p, err := s.prefsRepo.Get(taID)
	if err != nil {
		return model.TAPrefs{}, err
	}
	if p == nil {
		return model.TAPrefs{TAID: taID, LastLocation: DefaultLocation}, nil
	}
	if p.LastLocation == "" {
		p.LastLocation = DefaultLocation
	}
	return *p, nil
}

// RememberLink запоминает последнюю ссылку на встречу.
func (s *TAService) RememberLink(taID, link string) error {
	p, err := s.Prefs(taID)
	if err != nil {
		return err
	}
	p.LastMeetingLink = link
	return s.prefsRepo.Upsert(p)
}

// RememberLocation запоминает последнюю аудиторию.
func (s *TAService) RememberLocation(taID, location string) error {
	p, err := s.Prefs(taID)
	if err != nil {
		return err
	}
	if location == "" {
		location = DefaultLocation
	}
	p.LastLocation = location
	return s.prefsRepo.Upsert(p)
}
