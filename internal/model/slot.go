package model

type SlotStatus string

// Базовый статус слота — управляется владельцем (TA), не зависит
// от времени и занятости.
const (
	SlotStatusFree     SlotStatus = "free"
	SlotStatusClosed   SlotStatus = "closed"
	SlotStatusCanceled SlotStatus = "canceled"
)

type SlotMode string

const (
	SlotModeOnline  SlotMode = "online"
	SlotModeOffline SlotMode = "offline"
)

// ComputedStatus — вычисляемый статус слота: базовый статус + время + занятость.
// Никогда не сохраняется в таблицу, всегда выводится заново.
type ComputedStatus string

const (
	ComputedCanceled    ComputedStatus = "canceled"
	ComputedPast        ComputedStatus = "past"
	ComputedClosed      ComputedStatus = "closed"
	ComputedBusy        ComputedStatus = "busy"
	ComputedFreePartial ComputedStatus = "free_partial"
	ComputedFreeFull    ComputedStatus = "free_full"
)

// Slot — окно приёма, предлагаемое TA. Даты и времена храним строками,
// как они лежат в таблице: date "2006-01-02", time_from/time_to "15:04".
type Slot struct {
	ID           string     `csv:"slot_id"`
	TAID         string     `csv:"ta_id"`
	Date         string     `csv:"date"`
	TimeFrom     string     `csv:"time_from"`
	TimeTo       string     `csv:"time_to"`
	Mode         SlotMode   `csv:"mode"`
	Location     string     `csv:"location"`
	MeetingLink  string     `csv:"meeting_link"`
	DurationMin  int        `csv:"duration_min"`
	Capacity     int        `csv:"capacity"`
	Status       SlotStatus `csv:"status"`
	CreatedAt    string     `csv:"created_at"`
	CanceledBy   string     `csv:"canceled_by"`
	CanceledAt   string     `csv:"canceled_at"`
	CancelReason string     `csv:"cancel_reason"`
}

// Locator возвращает модо-специфичное место встречи.
func (s *Slot) Locator() string {
	if s.Mode == SlotModeOnline {
		return s.MeetingLink
	}
	return s.Location
}
