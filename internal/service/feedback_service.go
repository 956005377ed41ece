package service

import (
	"fmt"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

type FeedbackService struct {
	feedbackRepo *repository.FeedbackRepository
	logger       *zap.Logger
}

func NewFeedbackService(feedbackRepo *repository.FeedbackRepository, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo, logger: logger}
}

// Add сохраняет отзыв студента.
func (s *FeedbackService) Add(studentTgID int64, text, category string) (*model.Feedback, error) {
	if category == "" {
		category = "general"
	}
	fb := model.Feedback{
		ID:          model.NewID("fbk"),
		StudentTgID: studentTgID,
		Text:        text,
		CreatedAt:   model.NowISO(),
		Category:    category,
	}
	if err := s.feedbackRepo.Insert(fb); err != nil {
		return nil, fmt.Errorf("add feedback: %w", err)
	}
	s.logger.Info("Feedback received",
		zap.Int64("student_tg_id", studentTgID),
		zap.String("category", category),
	)
	return &fb, nil
}
