package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

// errRejected проводит отказ из критической секции наружу,
// отменяя запись таблицы.
var errRejected = errors.New("booking rejected")

// BookingResult — исход попытки бронирования: либо бронь, либо причина.
type BookingResult struct {
	OK      bool
	Booking *model.Booking
	Reason  RejectReason
}

// SlotView — слот вместе с текущей занятостью и вычисленным статусом.
type SlotView struct {
	Slot        model.Slot
	ActiveCount int
	Status      model.ComputedStatus
}

// FreeSpots возвращает число свободных мест.
func (v *SlotView) FreeSpots() int {
	return v.Slot.Capacity - v.ActiveCount
}

// StudentBooking — бронь студента вместе со слотом для отображения.
type StudentBooking struct {
	Booking model.Booking
	Slot    *model.Slot
}

type BookingService struct {
	slotRepo    *repository.SlotRepository
	bookingRepo *repository.BookingRepository
	logger      *zap.Logger
}

func NewBookingService(
	slotRepo *repository.SlotRepository,
	bookingRepo *repository.BookingRepository,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// CountActive возвращает число активных броней слота.
func (s *BookingService) CountActive(slotID string) (int, error) {
	return s.bookingRepo.CountActive(slotID)
}

// ListForSlot возвращает все брони слота в любом статусе.
func (s *BookingService) ListForSlot(slotID string) ([]model.Booking, error) {
	return s.bookingRepo.ListForSlot(slotID)
}

// HasActiveBooking — держит ли студент активную бронь на слот.
func (s *BookingService) HasActiveBooking(slotID string, studentTgID int64) (bool, error) {
	return s.bookingRepo.HasActive(slotID, studentTgID)
}

// AttemptBooking — единственная мутирующая точка входа, меняющая
// занятость. Весь check-then-act (пересчёт занятости, проверка статуса
// и дубликата, добавление строки) выполняется в одной критической
// секции таблицы броней: две конкурентные попытки на последнее место
// не пройдут обе.
func (s *BookingService) AttemptBooking(slotID string, studentTgID int64) (*BookingResult, error) {
	slot, err := s.slotRepo.GetByID(slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return &BookingResult{OK: false, Reason: RejectNotFound}, nil
	}

	result := &BookingResult{}
	err = s.bookingRepo.Transact(func(rows []model.Booking) ([]model.Booking, error) {
		activeCount := 0
		for _, b := range rows {
			if b.SlotID == slotID && b.Status == model.BookingStatusActive {
				activeCount++
				if b.StudentTgID == studentTgID {
					result.Reason = RejectDuplicate
				}
			}
		}

		status := ComputeStatus(slot, activeCount, time.Now())
		if !IsBookable(status) {
			result.Reason = RejectReasonFor(status)
			return nil, errRejected
		}
		if result.Reason == RejectDuplicate {
			return nil, errRejected
		}

		booking := model.Booking{
			ID:          model.NewID("bkg"),
			SlotID:      slotID,
			StudentTgID: studentTgID,
			CreatedAt:   model.NowISO(),
			Status:      model.BookingStatusActive,
		}
		result.OK = true
		result.Booking = &booking
		return append(rows, booking), nil
	})

	if err != nil && !errors.Is(err, errRejected) {
		return nil, fmt.Errorf("attempt booking: %w", err)
	}

	if result.OK {
		s.logger.Info("Booking created",
			zap.String("booking_id", result.Booking.ID),
			zap.String("slot_id", slotID),
			zap.Int64("student_tg_id", studentTgID),
		)
	} else {
		s.logger.Info("Booking rejected",
			zap.String("slot_id", slotID),
			zap.Int64("student_tg_id", studentTgID),
			zap.String("reason", string(result.Reason)),
		)
	}

	return result, nil
}

// CancelBooking мягко отменяет бронь; строка остаётся для истории.
func (s *BookingService) CancelBooking(bookingID string) (bool, error) {
	found, err := s.bookingRepo.CancelByID(bookingID)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}
	if found {
		s.logger.Info("Booking canceled", zap.String("booking_id", bookingID))
	}
	return found, nil
}

// View собирает SlotView для одного слота.
func (s *BookingService) View(slot *model.Slot) (*SlotView, error) {
	count, err := s.bookingRepo.CountActive(slot.ID)
	if err != nil {
		return nil, err
	}
	return &SlotView{
		Slot:        *slot,
		ActiveCount: count,
		Status:      ComputeStatus(slot, count, time.Now()),
	}, nil
}

// ListViewsForTA возвращает слоты преподавателя с занятостью и статусом,
// отсортированные по дате и времени начала.
func (s *BookingService) ListViewsForTA(taID string) ([]SlotView, error) {
	slots, err := s.slotRepo.ListByTA(taID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return s.buildViews(slots)
}

// ListBookableForTA возвращает только слоты, куда ещё можно записаться.
func (s *BookingService) ListBookableForTA(taID string) ([]SlotView, error) {
	views, err := s.ListViewsForTA(taID)
	if err != nil {
		return nil, err
	}
	out := views[:0]
	for _, v := range views {
		if IsBookable(v.Status) {
			out = append(out, v)
		}
	}
	return out, nil
}

// ListStudentBookings возвращает активные брони студента со слотами.
func (s *BookingService) ListStudentBookings(studentTgID int64) ([]StudentBooking, error) {
	bookings, err := s.bookingRepo.ListActiveForStudent(studentTgID)
	if err != nil {
		return nil, fmt.Errorf("list student bookings: %w", err)
	}
	out := make([]StudentBooking, 0, len(bookings))
	for _, b := range bookings {
		slot, err := s.slotRepo.GetByID(b.SlotID)
		if err != nil {
			return nil, fmt.Errorf("get slot for booking: %w", err)
		}
		out = append(out, StudentBooking{Booking: b, Slot: slot})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Slot, out[j].Slot
		if a == nil || b == nil {
			return a != nil
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.TimeFrom < b.TimeFrom
	})
	return out, nil
}

func (s *BookingService) buildViews(slots []model.Slot) ([]SlotView, error) {
	now := time.Now()
	views := make([]SlotView, 0, len(slots))
	for i := range slots {
		count, err := s.bookingRepo.CountActive(slots[i].ID)
		if err != nil {
			return nil, fmt.Errorf("count bookings: %w", err)
		}
		views = append(views, SlotView{
			Slot:        slots[i],
			ActiveCount: count,
			Status:      ComputeStatus(&slots[i], count, now),
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Slot.Date != views[j].Slot.Date {
			return views[i].Slot.Date < views[j].Slot.Date
		}
		return views[i].Slot.TimeFrom < views[j].Slot.TimeFrom
	})
	return views, nil
}
