package service

import (
	"fmt"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

type GradeService struct {
	gradeRepo *repository.GradeRepository
	audit     *AuditService
	logger    *zap.Logger
}

func NewGradeService(gradeRepo *repository.GradeRepository, audit *AuditService, logger *zap.Logger) *GradeService {
	return &GradeService{gradeRepo: gradeRepo, audit: audit, logger: logger}
}

// AddGrade выставляет оценку студенту за неделю.
func (s *GradeService) AddGrade(actorTgID int64, studentCode string, week int, points float64, comment, gradedBy string) (*model.Grade, error) {
	grade := model.Grade{
		ID:          model.NewID("grd"),
		StudentCode: studentCode,
		Week:        week,
		Points:      points,
		Comment:     comment,
		GradedBy:    gradedBy,
		GradedAt:    model.NowISO(),
	}
	if err := s.gradeRepo.Insert(grade); err != nil {
		return nil, fmt.Errorf("add grade: %w", err)
	}
	s.audit.Log(actorTgID, "GRADE_SET", studentCode, map[string]any{
		"week":   week,
		"points": points,
	})
	s.logger.Info("Grade set",
		zap.String("student_code", studentCode),
		zap.Int("week", week),
		zap.Float64("points", points),
	)
	return &grade, nil
}

// ListForStudent возвращает оценки студента, свежие первыми.
func (s *GradeService) ListForStudent(studentCode string) ([]model.Grade, error) {
	return s.gradeRepo.ListForStudent(studentCode)
}
