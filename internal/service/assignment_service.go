package service

import (
	"fmt"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

// AssignmentService — назначения «студент → TA» по неделям: к кому
// студент идёт сдавать конкретную неделю.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	audit          *AuditService
	logger         *zap.Logger
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	audit *AuditService,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		audit:          audit,
		logger:         logger,
	}
}

// Set назначает TA студенту на неделю, заменяя прежнее назначение.
func (s *AssignmentService) Set(actorTgID int64, studentCode string, week int, taCode string) error {
	err := s.assignmentRepo.Set(model.Assignment{
		StudentCode: studentCode,
		Week:        week,
		TACode:      taCode,
		CreatedAt:   model.NowISO(),
	})
	if err != nil {
		return fmt.Errorf("set assignment: %w", err)
	}
	s.audit.Log(actorTgID, "ASSIGNMENT_SET", studentCode, map[string]any{
		"week":    week,
		"ta_code": taCode,
	})
	return nil
}

// TAForStudentWeek возвращает ta_code назначения, пустую строку если нет.
func (s *AssignmentService) TAForStudentWeek(studentCode string, week int) (string, error) {
	return s.assignmentRepo.Get(studentCode, week)
}

// ListForStudent возвращает все назначения студента.
func (s *AssignmentService) ListForStudent(studentCode string) ([]model.Assignment, error) {
	return s.assignmentRepo.ListForStudent(studentCode)
}
