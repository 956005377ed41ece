package callbacktypes

import (
	"github.com/antonzhd/course_admin_bot/internal/service"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	GetString(telegramID int64, key string) string
	GetInt(telegramID int64, key string) int
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService       *service.UserService
	BookingService    *service.BookingService
	SlotService       *service.SlotService
	TAService         *service.TAService
	MaterialService   *service.MaterialService
	CourseService     *service.CourseService
	GradeService      *service.GradeService
	SubmissionService *service.SubmissionService
	AssignmentService *service.AssignmentService
	FeedbackService   *service.FeedbackService
	AuditService      *service.AuditService
	Impersonation     *service.ImpersonationService
	StateManager      StateManager
	Logger            *zap.Logger
}

// EffectiveTgID возвращает действующий tg id с учётом имперсонации
func (h *Handler) EffectiveTgID(tgID int64) int64 {
	return h.Impersonation.Effective(tgID)
}
