package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

var (
	// ErrEmailNotInRoster — email не найден в ростере курса.
	ErrEmailNotInRoster = errors.New("email not in roster")
	// ErrCodeAlreadyLinked — student_code уже привязан к другому tg.
	ErrCodeAlreadyLinked = errors.New("student code linked to another telegram account")
)

type UserService struct {
	userRepo     *repository.UserRepository
	rosterRepo   *repository.RosterRepository
	rosterTARepo *repository.RosterTARepository
	logger       *zap.Logger
}

func NewUserService(
	userRepo *repository.UserRepository,
	rosterRepo *repository.RosterRepository,
	rosterTARepo *repository.RosterTARepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		rosterRepo:   rosterRepo,
		rosterTARepo: rosterTARepo,
		logger:       logger,
	}
}

// GetByTgID возвращает пользователя, nil если не зарегистрирован.
func (s *UserService) GetByTgID(tgID int64) (*model.User, error) {
	return s.userRepo.GetByTgID(tgID)
}

// GetRole возвращает роль пользователя, unknown для незнакомых.
func (s *UserService) GetRole(tgID int64) (model.Role, error) {
	user, err := s.userRepo.GetByTgID(tgID)
	if err != nil {
		return model.RoleUnknown, err
	}
	if user == nil {
		return model.RoleUnknown, nil
	}
	return user.Role, nil
}

// RegisterStudent привязывает tg-аккаунт к строке ростера по email.
// Один student_code — один tg: повторная привязка чужого кода отклоняется.
func (s *UserService) RegisterStudent(tgID int64, email, firstName, lastName, username string) (*model.User, error) {
	entry, err := s.rosterRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("roster lookup: %w", err)
	}
	if entry == nil {
		return nil, ErrEmailNotInRoster
	}
	if entry.TgID != 0 && entry.TgID != tgID {
		return nil, ErrCodeAlreadyLinked
	}
	taken, err := s.userRepo.CodeTakenByOther(entry.StudentCode, tgID)
	if err != nil {
		return nil, fmt.Errorf("check student code: %w", err)
	}
	if taken {
		return nil, ErrCodeAlreadyLinked
	}

	entry.TgID = tgID
	entry.Role = model.RoleStudent
	if err := s.rosterRepo.UpsertByStudentCode(*entry); err != nil {
		return nil, fmt.Errorf("link roster entry: %w", err)
	}

	user := model.User{
		TgID:      tgID,
		Role:      model.RoleStudent,
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Email:     strings.TrimSpace(email),
		Code:      entry.StudentCode,
		CreatedAt: model.NowISO(),
	}
	if existing, err := s.userRepo.GetByTgID(tgID); err == nil && existing != nil {
		user.CreatedAt = existing.CreatedAt
	}
	if err := s.userRepo.Upsert(user); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	s.logger.Info("Student registered",
		zap.Int64("tg_id", tgID),
		zap.String("student_code", entry.StudentCode),
	)
	return &user, nil
}

// PromoteToTA выдаёт пользователю роль TA с внутренним кодом taID.
func (s *UserService) PromoteToTA(tgID int64, taID, firstName, lastName, username string) (*model.User, error) {
	user := model.User{
		TgID:      tgID,
		Role:      model.RoleTA,
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Code:      taID,
		CreatedAt: model.NowISO(),
	}
	if existing, err := s.userRepo.GetByTgID(tgID); err == nil && existing != nil {
		user.CreatedAt = existing.CreatedAt
		if user.Code == "" {
			user.Code = existing.Code
		}
	}
	if err := s.userRepo.Upsert(user); err != nil {
		return nil, fmt.Errorf("promote to ta: %w", err)
	}
	s.logger.Info("User promoted to TA", zap.Int64("tg_id", tgID), zap.String("ta_id", user.Code))
	return &user, nil
}

// SetRole меняет роль существующего пользователя (админка владельца).
func (s *UserService) SetRole(tgID int64, role model.Role) (bool, error) {
	user, err := s.userRepo.GetByTgID(tgID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	user.Role = role
	if err := s.userRepo.Upsert(*user); err != nil {
		return false, fmt.Errorf("set role: %w", err)
	}
	return true, nil
}

// EnsureOwner гарантирует, что владелец из конфига имеет роль owner.
func (s *UserService) EnsureOwner(ownerTgID int64) error {
	if ownerTgID == 0 {
		return nil
	}
	user, err := s.userRepo.GetByTgID(ownerTgID)
	if err != nil {
		return err
	}
	if user != nil && user.Role == model.RoleOwner {
		return nil
	}
	owner := model.User{
		TgID:      ownerTgID,
		Role:      model.RoleOwner,
		Code:      "TA-00",
		CreatedAt: model.NowISO(),
	}
	if user != nil {
		owner.FirstName = user.FirstName
		owner.LastName = user.LastName
		owner.Username = user.Username
		owner.CreatedAt = user.CreatedAt
	}
	if err := s.userRepo.Upsert(owner); err != nil {
		return fmt.Errorf("ensure owner: %w", err)
	}
	s.logger.Info("Owner role ensured", zap.Int64("tg_id", ownerTgID))
	return nil
}

// TAIDByTg возвращает внутренний TA id по tg, пустую строку если
// пользователь не TA (owner тоже считается TA).
func (s *UserService) TAIDByTg(tgID int64) (string, error) {
	user, err := s.userRepo.GetByTgID(tgID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.Role.IsTA() {
		return "", nil
	}
	return user.Code, nil
}

// TgByTAID возвращает tg id преподавателя по его внутреннему коду, 0 если нет.
func (s *UserService) TgByTAID(taID string) (int64, error) {
	user, err := s.userRepo.GetByCode(taID)
	if err != nil {
		return 0, err
	}
	if user == nil || !user.Role.IsTA() {
		return 0, nil
	}
	return user.TgID, nil
}

// ListRosterTAs возвращает преподавателей из ростера TA.
func (s *UserService) ListRosterTAs() ([]model.RosterTA, error) {
	return s.rosterTARepo.ListAll()
}

// RosterTAName возвращает ФИО преподавателя по ta_id или сам код,
// если ростер его не знает.
func (s *UserService) RosterTAName(taID string) string {
	ta, err := s.rosterTARepo.GetByID(taID)
	if err != nil || ta == nil {
		return taID
	}
	return ta.FullName()
}

// StudentCodeByTg возвращает student_code зарегистрированного студента.
func (s *UserService) StudentCodeByTg(tgID int64) (string, error) {
	user, err := s.userRepo.GetByTgID(tgID)
	if err != nil {
		return "", err
	}
	if user == nil || user.Role != model.RoleStudent {
		return "", nil
	}
	return user.Code, nil
}
