package model

type BookingStatus string

const (
	BookingStatusActive   BookingStatus = "active"
	BookingStatusCanceled BookingStatus = "canceled"
)

// Booking — заявка студента на одно место в слоте.
// Записи никогда не удаляются физически, только помечаются canceled.
type Booking struct {
	ID          string        `csv:"booking_id"`
	SlotID      string        `csv:"slot_id"`
	StudentTgID int64         `csv:"student_tg_id"`
	CreatedAt   string        `csv:"created_at"`
	Status      BookingStatus `csv:"status"`
}
