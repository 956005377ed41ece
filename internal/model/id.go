package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout — формат календарной даты в таблицах.
	DateLayout = "2006-01-02"
	// ClockLayout — формат времени суток в таблицах.
	ClockLayout = "15:04"
)

// NewID генерирует непрозрачный идентификатор с префиксом сущности,
// например slt_8f14e45f-....
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// NowISO — текущий момент UTC в RFC3339, формат всех created_at в таблицах.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseDate разбирает дату таблицы (YYYY-MM-DD) в локальной зоне.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

// ParseClock разбирает время суток HH:MM.
func ParseClock(s string) (time.Time, error) {
	return time.Parse(ClockLayout, strings.TrimSpace(s))
}

// CombineLocal склеивает дату и время суток в момент локальной зоны
// деплоя (per-slot таймзона не хранится).
func CombineLocal(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.Local), nil
}
