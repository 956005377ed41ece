package service

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/antonzhd/course_admin_bot/internal/filestore"
	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

type SubmissionService struct {
	submissionRepo *repository.SubmissionRepository
	storage        filestore.Storage
	logger         *zap.Logger
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	storage filestore.Storage,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		storage:        storage,
		logger:         logger,
	}
}

// SaveSubmission сохраняет файл в хранилище и записывает сдачу.
func (s *SubmissionService) SaveSubmission(ctx context.Context, tgID int64, studentCode, taskID, fileName string,
	fileBytes []byte, comment string) (*model.Submission, error) {

	owner := studentCode
	if owner == "" {
		owner = strconv.FormatInt(tgID, 10)
	}
	relPath := path.Join("submissions", owner, taskID, fileName)
	ref, err := s.storage.SaveBytes(ctx, relPath, fileBytes)
	if err != nil {
		return nil, fmt.Errorf("save submission file: %w", err)
	}

	sub := model.Submission{
		ID:          model.NewID("sub"),
		TaskID:      taskID,
		StudentCode: studentCode,
		TgID:        tgID,
		SubmittedAt: model.NowISO(),
		FileRef:     ref,
		Comment:     comment,
	}
	if err := s.submissionRepo.Insert(sub); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	s.logger.Info("Submission saved",
		zap.String("submission_id", sub.ID),
		zap.String("task_id", taskID),
		zap.String("student_code", studentCode),
		zap.Int("size_bytes", len(fileBytes)),
	)
	return &sub, nil
}

// ListForStudent возвращает сдачи студента.
func (s *SubmissionService) ListForStudent(studentCode string) ([]model.Submission, error) {
	return s.submissionRepo.ListForStudent(studentCode)
}

// ListForTask возвращает сдачи по заданию (экран TA).
func (s *SubmissionService) ListForTask(taskID string) ([]model.Submission, error) {
	return s.submissionRepo.ListForTask(taskID)
}
