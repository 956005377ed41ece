package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/service"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	b              *bot.Bot
	bookingService *service.BookingService
	userService    *service.UserService
	logger         *zap.Logger
	stopChan       chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(
	b *bot.Bot,
	bookingService *service.BookingService,
	userService *service.UserService,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		b:              b,
		bookingService: bookingService,
		userService:    userService,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runDailyDigestTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runDailyDigestTask раз в сутки рассылает преподавателям сводку
// занятых слотов на сегодня. Первый запуск — при старте бота.
func (s *Scheduler) runDailyDigestTask(ctx context.Context) {
	s.sendDigests(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendDigests(ctx)
		case <-s.stopChan:
			s.logger.Info("Daily digest task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Daily digest task cancelled")
			return
		}
	}
}

// sendDigests собирает и рассылает сводки всем преподавателям из списка.
func (s *Scheduler) sendDigests(ctx context.Context) {
	s.logger.Info("Starting daily digest broadcast")

	tas, err := s.userService.ListRosterTAs()
	if err != nil {
		s.logger.Error("Failed to list TAs for digest", zap.Error(err))
		return
	}

	today := time.Now().Format(model.DateLayout)
	sent := 0

	for _, ta := range tas {
		tgID, err := s.userService.TgByTAID(ta.TAID)
		if err != nil || tgID == 0 {
			continue
		}

		text, err := s.buildDigest(ta.TAID, today)
		if err != nil {
			s.logger.Error("Failed to build digest",
				zap.String("ta_id", ta.TAID), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}

		_, err = s.b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: tgID,
			Text:   text,
		})
		if err != nil {
			s.logger.Error("Failed to send digest",
				zap.Int64("tg_id", tgID), zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("Daily digest broadcast completed", zap.Int("sent", sent))
}

// buildDigest формирует текст сводки по занятым слотам преподавателя
// на указанную дату. Пустая строка — рассылать нечего.
func (s *Scheduler) buildDigest(taID, date string) (string, error) {
	views, err := s.bookingService.ListViewsForTA(taID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, v := range views {
		if v.Slot.Date != date || v.ActiveCount == 0 {
			continue
		}
		if v.Status == model.ComputedCanceled {
			continue
		}
		fmt.Fprintf(&sb, "• %s–%s — записано %d из %d\n",
			v.Slot.TimeFrom, v.Slot.TimeTo, v.ActiveCount, v.Slot.Capacity)
	}
	if sb.Len() == 0 {
		return "", nil
	}

	return "📅 Ваши занятые слоты на сегодня (" + date + "):\n\n" + sb.String(), nil
}
