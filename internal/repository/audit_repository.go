package repository

import (
	"fmt"
	"path/filepath"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

// AuditRepository — append-only журнал событий.
type AuditRepository struct {
	table *storage.Table[model.AuditEvent]
}

func NewAuditRepository(dataDir string) (*AuditRepository, error) {
	table, err := storage.NewTable[model.AuditEvent](filepath.Join(dataDir, "audit.csv"))
	if err != nil {
		return nil, fmt.Errorf("audit table: %w", err)
	}
	return &AuditRepository{table: table}, nil
}

// Insert дописывает событие.
func (r *AuditRepository) Insert(e model.AuditEvent) error {
	return r.table.Append(e)
}

// ListAll возвращает журнал в порядке записи.
func (r *AuditRepository) ListAll() ([]model.AuditEvent, error) {
	return r.table.ReadAll()
}

// FeedbackRepository — отзывы студентов.
type FeedbackRepository struct {
	table *storage.Table[model.Feedback]
}

func NewFeedbackRepository(dataDir string) (*FeedbackRepository, error) {
	table, err := storage.NewTable[model.Feedback](filepath.Join(dataDir, "feedback.csv"))
	if err != nil {
		return nil, fmt.Errorf("feedback table: %w", err)
	}
	return &FeedbackRepository{table: table}, nil
}

// Insert дописывает отзыв.
func (r *FeedbackRepository) Insert(f model.Feedback) error {
	return r.table.Append(f)
}
