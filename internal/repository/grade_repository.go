package repository

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

type GradeRepository struct {
	table *storage.Table[model.Grade]
}

func NewGradeRepository(dataDir string) (*GradeRepository, error) {
	table, err := storage.NewTable[model.Grade](filepath.Join(dataDir, "grades.csv"))
	if err != nil {
		return nil, fmt.Errorf("grades table: %w", err)
	}
	return &GradeRepository{table: table}, nil
}

// Insert дописывает оценку.
func (r *GradeRepository) Insert(g model.Grade) error {
	return r.table.Append(g)
}

// ListForStudent возвращает оценки студента, свежие первыми.
func (r *GradeRepository) ListForStudent(studentCode string) ([]model.Grade, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Grade
	for _, g := range rows {
		if g.StudentCode == studentCode {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GradedAt > out[j].GradedAt
	})
	return out, nil
}
