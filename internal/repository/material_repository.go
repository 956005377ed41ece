package repository

import (
	"fmt"
	"path/filepath"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

type MaterialRepository struct {
	table *storage.Table[model.Material]
}

func NewMaterialRepository(dataDir string) (*MaterialRepository, error) {
	table, err := storage.NewTable[model.Material](filepath.Join(dataDir, "materials.csv"))
	if err != nil {
		return nil, fmt.Errorf("materials table: %w", err)
	}
	return &MaterialRepository{table: table}, nil
}

// Insert дописывает материал.
func (r *MaterialRepository) Insert(m model.Material) error {
	return r.table.Append(m)
}

// Get возвращает материал по id, nil если не найден.
func (r *MaterialRepository) Get(id string) (*model.Material, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// FindActive возвращает активную версию материала (week, type), nil если нет.
func (r *MaterialRepository) FindActive(week int, mtype model.MaterialType) (*model.Material, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Week == week && rows[i].Type == mtype && rows[i].State == model.MaterialStateActive {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// ListActive возвращает все активные материалы недели.
func (r *MaterialRepository) ListActive(week int) ([]model.Material, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Material
	for _, m := range rows {
		if m.Week == week && m.State == model.MaterialStateActive {
			out = append(out, m)
		}
	}
	return out, nil
}

// History возвращает все версии материала (week, type) в порядке создания.
func (r *MaterialRepository) History(week int, mtype model.MaterialType) ([]model.Material, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Material
	for _, m := range rows {
		if m.Week == week && m.Type == mtype {
			out = append(out, m)
		}
	}
	return out, nil
}

// SetState переводит материал в новое состояние, false если не найден.
func (r *MaterialRepository) SetState(id string, state model.MaterialState) (bool, error) {
	found := false
	err := r.table.Update(func(rows []model.Material) ([]model.Material, error) {
		for i := range rows {
			if rows[i].ID == id {
				found = true
				rows[i].State = state
				rows[i].UpdatedAt = model.NowISO()
				break
			}
		}
		return rows, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Delete физически удаляет строку материала (только для архивных версий).
func (r *MaterialRepository) Delete(id string) (bool, error) {
	found := false
	err := r.table.Update(func(rows []model.Material) ([]model.Material, error) {
		out := rows[:0]
		for _, m := range rows {
			if m.ID == id {
				found = true
				continue
			}
			out = append(out, m)
		}
		return out, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
