package repository

import (
	"fmt"
	"path/filepath"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

type BookingRepository struct {
	table *storage.Table[model.Booking]
}

func NewBookingRepository(dataDir string) (*BookingRepository, error) {
	table, err := storage.NewTable[model.Booking](filepath.Join(dataDir, "bookings.csv"))
	if err != nil {
		return nil, fmt.Errorf("bookings table: %w", err)
	}
	return &BookingRepository{table: table}, nil
}

// GetByID возвращает бронь по id, nil если не найдена.
func (r *BookingRepository) GetByID(id string) (*model.Booking, error) {
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

// ListForSlot возвращает все брони слота в любом статусе.
func (r *BookingRepository) ListForSlot(slotID string) ([]model.Booking, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Booking
	for _, b := range rows {
		if b.SlotID == slotID {
			out = append(out, b)
		}
	}
	return out, nil
}

// ListActiveForStudent возвращает активные брони студента.
func (r *BookingRepository) ListActiveForStudent(tgID int64) ([]model.Booking, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.Booking
	for _, b := range rows {
		if b.StudentTgID == tgID && b.Status == model.BookingStatusActive {
			out = append(out, b)
		}
	}
	return out, nil
}

// CountActive считает активные брони слота по снимку таблицы.
func (r *BookingRepository) CountActive(slotID string) (int, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return 0, err
	}
	return countActive(rows, slotID), nil
}

// HasActive проверяет, держит ли студент активную бронь на слот.
func (r *BookingRepository) HasActive(slotID string, tgID int64) (bool, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return false, err
	}
	return hasActive(rows, slotID, tgID), nil
}

// Transact выполняет fn над таблицей броней в одной критической секции:
// сюда попадает весь check-then-act создания брони, чтобы две
// конкурентные попытки на последнее место не прошли обе.
func (r *BookingRepository) Transact(fn func(rows []model.Booking) ([]model.Booking, error)) error {
	return r.table.Update(fn)
}

// CancelByID мягко отменяет бронь, строка сохраняется для истории.
func (r *BookingRepository) CancelByID(id string) (bool, error) {
	found := false
	err := r.table.Update(func(rows []model.Booking) ([]model.Booking, error) {
		for i := range rows {
			if rows[i].ID == id {
				found = true
				rows[i].Status = model.BookingStatusCanceled
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

// countActive — подсчёт активных броней слота в срезе строк.
func countActive(rows []model.Booking, slotID string) int {
	n := 0
	for _, b := range rows {
		if b.SlotID == slotID && b.Status == model.BookingStatusActive {
			n++
		}
	}
	return n
}

// hasActive — есть ли активная бронь студента в срезе строк.
func hasActive(rows []model.Booking, slotID string, tgID int64) bool {
	for _, b := range rows {
		if b.SlotID == slotID && b.StudentTgID == tgID && b.Status == model.BookingStatusActive {
			return true
		}
	}
	return false
}
