package repository

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

type RosterRepository struct {
	table *storage.Table[model.RosterEntry]
}

func NewRosterRepository(dataDir string) (*RosterRepository, error) {
	table, err := storage.NewTable[model.RosterEntry](filepath.Join(dataDir, "roster.csv"))
	if err != nil {
		return nil, fmt.Errorf("roster table: %w", err)
	}
	return &RosterRepository{table: table}, nil
}

// GetByEmail ищет строку ростера по email (без учёта регистра).
func (r *RosterRepository) GetByEmail(email string) (*model.RosterEntry, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(email))
	for i := range rows {
		if strings.ToLower(strings.TrimSpace(rows[i].Email)) == needle {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// GetByTgID возвращает строку ростера, привязанную к tg_id.
func (r *RosterRepository) GetByTgID(tgID int64) (*model.RosterEntry, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].TgID == tgID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// UpsertByStudentCode вставляет или заменяет строку по student_code.
func (r *RosterRepository) UpsertByStudentCode(entry model.RosterEntry) error {
	return r.table.Update(func(rows []model.RosterEntry) ([]model.RosterEntry, error) {
		for i := range rows {
			if rows[i].StudentCode == entry.StudentCode {
				rows[i] = entry
				return rows, nil
			}
		}
		return append(rows, entry), nil
	})
}

// RosterTARepository — отдельный ростер преподавателей.
type RosterTARepository struct {
	table *storage.Table[model.RosterTA]
}

func NewRosterTARepository(dataDir string) (*RosterTARepository, error) {
	table, err := storage.NewTable[model.RosterTA](filepath.Join(dataDir, "roster_ta.csv"))
	if err != nil {
		return nil, fmt.Errorf("roster_ta table: %w", err)
	}
	return &RosterTARepository{table: table}, nil
}

// ListAll возвращает всех TA из ростера.
func (r *RosterTARepository) ListAll() ([]model.RosterTA, error) {
	return r.table.ReadAll()
}

// GetByID возвращает TA по ta_id, nil если не найден.
func (r *RosterTARepository) GetByID(taID string) (*model.RosterTA, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].TAID == taID {
			return &rows[i], nil
		}
	}
	return nil, nil
}
