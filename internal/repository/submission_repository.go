package repository

import (
	"fmt"
	"path/filepath"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

type SubmissionRepository struct {
	table *storage.Table[model.Submission]
}

func NewSubmissionRepository(dataDir string) (*SubmissionRepository, error) {
	table, err := storage.NewTable[model.Submission](filepath.Join(dataDir, "submissions.csv"))
	if err != nil {
		return nil, fmt.Errorf("submissions table: %w", err)
	}
	return &SubmissionRepository{table: table}, nil
}

// Insert дописывает сдачу.
func (r *SubmissionRepository) Insert(s model.Submission) error {
	return r.table.Append(s)
}

// ListForStudent возвращает все сдачи студента.
func (r *SubmissionRepository) ListForStudent(studentCode string) ([]model.Submission, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Submission
	for _, s := range rows {
		if s.StudentCode == studentCode {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListForTask возвращает все сдачи по заданию.
func (r *SubmissionRepository) ListForTask(taskID string) ([]model.Submission, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Submission
	for _, s := range rows {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out, nil
}
