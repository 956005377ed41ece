package handlers

import (
	"github.com/antonzhd/course_admin_bot/internal/controller/state"
	"github.com/antonzhd/course_admin_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService       *service.UserService
	bookingService    *service.BookingService
	slotService       *service.SlotService
	taService         *service.TAService
	materialService   *service.MaterialService
	courseService     *service.CourseService
	gradeService      *service.GradeService
	submissionService *service.SubmissionService
	assignmentService *service.AssignmentService
	feedbackService   *service.FeedbackService
	auditService      *service.AuditService
	impersonation     *service.ImpersonationService
	stateManager      *state.Manager
	taInviteCode      string
	ownerTgID         int64
	logger            *zap.Logger
}

// Deps — зависимости обработчиков команд.
type Deps struct {
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
	StateManager      *state.Manager
	TAInviteCode      string
	OwnerTgID         int64
	Logger            *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{
		userService:       deps.UserService,
		bookingService:    deps.BookingService,
		slotService:       deps.SlotService,
		taService:         deps.TAService,
		materialService:   deps.MaterialService,
		courseService:     deps.CourseService,
		gradeService:      deps.GradeService,
		submissionService: deps.SubmissionService,
		assignmentService: deps.AssignmentService,
		feedbackService:   deps.FeedbackService,
		auditService:      deps.AuditService,
		impersonation:     deps.Impersonation,
		stateManager:      deps.StateManager,
		taInviteCode:      deps.TAInviteCode,
		ownerTgID:         deps.OwnerTgID,
		logger:            deps.Logger,
	}
}
