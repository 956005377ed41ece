package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

// Лимиты каталога слотов.
const (
	MinSlotDurationMin = 5
	MaxSlotDurationMin = 120
	MaxCapacity        = 20
	MaxWindow          = 6 * time.Hour
)

// Ошибки валидации: отклоняются до любых изменений состояния.
var (
	ErrBadTimeRange  = errors.New("time_to must be after time_from")
	ErrBadDuration   = errors.New("duration out of range")
	ErrBadCapacity   = errors.New("capacity out of range")
	ErrWindowTooLong = errors.New("window longer than allowed")
)

// errSlotTerminal — попытка перевести отменённый слот в другой статус.
// Отмена терминальна, любые переходы из неё отклоняются.
var errSlotTerminal = errors.New("slot is canceled")

type SlotService struct {
	slotRepo *repository.SlotRepository
	logger   *zap.Logger
}

func NewSlotService(slotRepo *repository.SlotRepository, logger *zap.Logger) *SlotService {
	return &SlotService{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// CreateSlot создаёт один слот со статусом free. durationMin == 0 —
// длительность считается из time_from/time_to.
func (s *SlotService) CreateSlot(taID, date, timeFrom, timeTo string, mode model.SlotMode,
	capacity int, location, meetingLink string, durationMin int) (*model.Slot, error) {

	start, err := model.CombineLocal(date, timeFrom)
	if err != nil {
		return nil, fmt.Errorf("parse slot start: %w", err)
	}
	end, err := model.CombineLocal(date, timeTo)
	if err != nil {
		return nil, fmt.Errorf("parse slot end: %w", err)
	}
	if !end.After(start) {
		return nil, ErrBadTimeRange
	}
	if durationMin == 0 {
		durationMin = int(end.Sub(start).Minutes())
	}
	if durationMin < 1 || durationMin > MaxSlotDurationMin {
		return nil, ErrBadDuration
	}
	if capacity < 1 || capacity > MaxCapacity {
		return nil, ErrBadCapacity
	}

	slot := model.Slot{
		ID:          model.NewID("slt"),
		TAID:        taID,
		Date:        date,
		TimeFrom:    timeFrom,
		TimeTo:      timeTo,
		Mode:        mode,
		Location:    location,
		MeetingLink: meetingLink,
		DurationMin: durationMin,
		Capacity:    capacity,
		Status:      model.SlotStatusFree,
		CreatedAt:   model.NowISO(),
	}

	if err := s.slotRepo.Create(slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.String("slot_id", slot.ID),
		zap.String("ta_id", taID),
		zap.String("date", date),
		zap.String("time", timeFrom+"-"+timeTo),
	)

	return &slot, nil
}

// SkippedRange — пропущенный под-интервал окна с причиной.
type SkippedRange struct {
	From   string
	To     string
	Reason string
}

// WindowResult — итог генерации окна: созданные слоты и пропуски.
type WindowResult struct {
	Created []model.Slot
	Skipped []SkippedRange
}

// CreateWindow нарезает окно [winFrom, winTo) на последовательные слоты
// по durationMin минут. Остаток короче durationMin отбрасывается.
// Кандидаты, пересекающиеся с существующими неотменёнными слотами TA
// на эту дату, попадают в Skipped c причиной "conflict" — генерация
// best-effort по под-интервалам. Валидация лимитов — до любых записей.
func (s *SlotService) CreateWindow(taID, date, winFrom, winTo string, durationMin, capacity int,
	mode model.SlotMode, location, meetingLink string) (*WindowResult, error) {

	if durationMin < MinSlotDurationMin || durationMin > MaxSlotDurationMin {
		return nil, ErrBadDuration
	}
	if capacity < 1 || capacity > MaxCapacity {
		return nil, ErrBadCapacity
	}
	start, err := model.CombineLocal(date, winFrom)
	if err != nil {
		return nil, fmt.Errorf("parse window start: %w", err)
	}
	end, err := model.CombineLocal(date, winTo)
	if err != nil {
		return nil, fmt.Errorf("parse window end: %w", err)
	}
	if !end.After(start) {
		return nil, ErrBadTimeRange
	}
	if end.Sub(start) > MaxWindow {
		return nil, ErrWindowTooLong
	}

	existing, err := s.slotRepo.ListByTAOnDate(taID, date)
	if err != nil {
		return nil, fmt.Errorf("list slots for conflict check: %w", err)
	}

	result := &WindowResult{}
	step := time.Duration(durationMin) * time.Minute
	for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
		from := cur.Format(model.ClockLayout)
		to := cur.Add(step).Format(model.ClockLayout)

		if HasConflict(existing, date, from, to) {
			result.Skipped = append(result.Skipped, SkippedRange{From: from, To: to, Reason: "conflict"})
			continue
		}

		slot, err := s.CreateSlot(taID, date, from, to, mode, capacity, location, meetingLink, durationMin)
		if err != nil {
			return nil, fmt.Errorf("create window slot %s-%s: %w", from, to, err)
		}
		result.Created = append(result.Created, *slot)
	}

	s.logger.Info("Slot window generated",
		zap.String("ta_id", taID),
		zap.String("date", date),
		zap.String("window", winFrom+"-"+winTo),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}

// GetByID возвращает слот, nil если не найден.
func (s *SlotService) GetByID(slotID string) (*model.Slot, error) {
	return s.slotRepo.GetByID(slotID)
}

// ListForTA возвращает все слоты преподавателя.
func (s *SlotService) ListForTA(taID string) ([]model.Slot, error) {
	return s.slotRepo.ListByTA(taID)
}

// SetOpen открывает (free) или закрывает (closed) запись в слот.
// false — слот не найден либо отменён: отмена терминальна.
func (s *SlotService) SetOpen(slotID string, open bool) (bool, error) {
	found, err := s.slotRepo.UpdateByID(slotID, func(slot *model.Slot) error {
		if slot.Status == model.SlotStatusCanceled {
			return errSlotTerminal
		}
		if open {
			slot.Status = model.SlotStatusFree
		} else {
			slot.Status = model.SlotStatusClosed
		}
		return nil
	})
	if errors.Is(err, errSlotTerminal) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("set slot open: %w", err)
	}
	return found, nil
}

// Cancel помечает слот отменённым и записывает кто/когда/почему.
// Повторная отмена отклоняется и не трогает поля аудита.
func (s *SlotService) Cancel(slotID, canceledBy, reason string) (bool, error) {
	found, err := s.slotRepo.UpdateByID(slotID, func(slot *model.Slot) error {
		if slot.Status == model.SlotStatusCanceled {
			return errSlotTerminal
		}
		slot.Status = model.SlotStatusCanceled
		slot.CanceledBy = canceledBy
		slot.CanceledAt = model.NowISO()
		slot.CancelReason = reason
		return nil
	})
	if errors.Is(err, errSlotTerminal) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cancel slot: %w", err)
	}
	if found {
		s.logger.Info("Slot canceled",
			zap.String("slot_id", slotID),
			zap.String("canceled_by", canceledBy),
			zap.String("reason", reason),
		)
	}
	return found, nil
}
