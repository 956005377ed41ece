package repository

import (
	"fmt"
	"path/filepath"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

type AssignmentRepository struct {
	table *storage.Table[model.Assignment]
}

func NewAssignmentRepository(dataDir string) (*AssignmentRepository, error) {
	table, err := storage.NewTable[model.Assignment](filepath.Join(dataDir, "assignments.csv"))
	if err != nil {
		return nil, fmt.Errorf("assignments table: %w", err)
	}
	return &AssignmentRepository{table: table}, nil
}

// Set назначает TA студенту на неделю, заменяя прежнее назначение.
func (r *AssignmentRepository) Set(a model.Assignment) error {
	return r.table.Update(func(rows []model.Assignment) ([]model.Assignment, error) {
		out := rows[:0]
		for _, row := range rows {
			if row.StudentCode == a.StudentCode && row.Week == a.Week {
				continue
			}
			out = append(out, row)
		}
		return append(out, a), nil
	})
}

// Get возвращает ta_code для студента на неделю, пустая строка если нет.
func (r *AssignmentRepository) Get(studentCode string, week int) (string, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return "", err
	}
	for _, a := range rows {
		if a.StudentCode == studentCode && a.Week == week {
			return a.TACode, nil
		}
	}
	return "", nil
}

// ListForStudent возвращает все назначения студента.
func (r *AssignmentRepository) ListForStudent(studentCode string) ([]model.Assignment, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Assignment
	for _, a := range rows {
		if a.StudentCode == studentCode {
			out = append(out, a)
		}
	}
	return out, nil
}
