package repository

import (
	"fmt"
	"path/filepath"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

type SlotRepository struct {
	table *storage.Table[model.Slot]
}

func NewSlotRepository(dataDir string) (*SlotRepository, error) {
	table, err := storage.NewTable[model.Slot](filepath.Join(dataDir, "slots.csv"))
	if err != nil {
		return nil, fmt.Errorf("slots table: %w", err)
	}
	return &SlotRepository{table: table}, nil
}

// Create дописывает новый слот.
func (r *SlotRepository) Create(slot model.Slot) error {
	return r.table.Append(slot)
}

// GetByID возвращает слот по id, nil если не найден.
func (r *SlotRepository) GetByID(id string) (*model.Slot, error) {
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

// ListAll возвращает снимок всей таблицы слотов.
func (r *SlotRepository) ListAll() ([]model.Slot, error) {
	return r.table.ReadAll()
}

// ListByTA возвращает все слоты преподавателя.
func (r *SlotRepository) ListByTA(taID string) ([]model.Slot, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Slot
	for _, s := range rows {
		if s.TAID == taID {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListByTAOnDate возвращает слоты преподавателя на дату.
func (r *SlotRepository) ListByTAOnDate(taID, date string) ([]model.Slot, error) {
	rows, err := r.ListByTA(taID)
	if err != nil {
		return nil, err
	}
	var out []model.Slot
	for _, s := range rows {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

// UpdateByID применяет mutate к слоту внутри критической секции таблицы.
// Возвращает false, если слот не найден; ошибка из mutate отменяет запись.
func (r *SlotRepository) UpdateByID(id string, mutate func(*model.Slot) error) (bool, error) {
	found := false
	err := r.table.Update(func(rows []model.Slot) ([]model.Slot, error) {
		for i := range rows {
			if rows[i].ID == id {
				found = true
				if err := mutate(&rows[i]); err != nil {
					return nil, err
				}
				return rows, nil
			}
		}
		return rows, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
