package repository

import (
	"fmt"
	"path/filepath"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

// TARequestRepository — заявки на роль TA.
type TARequestRepository struct {
	table *storage.Table[model.TARequest]
}

func NewTARequestRepository(dataDir string) (*TARequestRepository, error) {
	table, err := storage.NewTable[model.TARequest](filepath.Join(dataDir, "ta_requests.csv"))
	if err != nil {
		return nil, fmt.Errorf("ta_requests table: %w", err)
	}
	return &TARequestRepository{table: table}, nil
}

// Insert дописывает заявку.
func (r *TARequestRepository) Insert(req model.TARequest) error {
	return r.table.Append(req)
}

// GetByTgID возвращает последнюю заявку пользователя, nil если нет.
func (r *TARequestRepository) GetByTgID(tgID int64) (*model.TARequest, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].TgID == tgID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// ListPending возвращает нерешённые заявки.
func (r *TARequestRepository) ListPending() ([]model.TARequest, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.TARequest
	for _, req := range rows {
		if req.Status == model.TARequestPending {
			out = append(out, req)
		}
	}
	return out, nil
}

// SetStatus решает последнюю заявку пользователя, false если заявок нет.
func (r *TARequestRepository) SetStatus(tgID int64, status model.TARequestStatus) (bool, error) {
	found := false
	err := r.table.Update(func(rows []model.TARequest) ([]model.TARequest, error) {
		for i := len(rows) - 1; i >= 0; i-- {
			if rows[i].TgID == tgID {
				found = true
				rows[i].Status = status
				rows[i].DecidedAt = model.NowISO()
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

// TAPrefsRepository — последние значения формы создания слотов по TA.
type TAPrefsRepository struct {
	table *storage.Table[model.TAPrefs]
}

func NewTAPrefsRepository(dataDir string) (*TAPrefsRepository, error) {
	table, err := storage.NewTable[model.TAPrefs](filepath.Join(dataDir, "ta_prefs.csv"))
	if err != nil {
		return nil, fmt.Errorf("ta_prefs table: %w", err)
	}
	return &TAPrefsRepository{table: table}, nil
}

// Get возвращает сохранённые предпочтения TA, nil если их ещё нет.
func (r *TAPrefsRepository) Get(taID string) (*model.TAPrefs, error) {
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

// Upsert вставляет или заменяет предпочтения по ta_id.
func (r *TAPrefsRepository) Upsert(p model.TAPrefs) error {
	return r.table.Update(func(rows []model.TAPrefs) ([]model.TAPrefs, error) {
		for i := range rows {
			if rows[i].TAID == p.TAID {
				rows[i] = p
				return rows, nil
			}
		}
		return append(rows, p), nil
	})
}
