package model

type TARequestStatus string

const (
	TARequestPending  TARequestStatus = "pending"
	TARequestApproved TARequestStatus = "approved"
	TARequestRejected TARequestStatus = "rejected"
)

// TARequest — заявка пользователя на роль TA, решается владельцем.
type TARequest struct {
	ID        string          `csv:"req_id"`
	TgID      int64           `csv:"tg_id"`
	Status    TARequestStatus `csv:"status"`
	CreatedAt string          `csv:"created_at"`
	DecidedAt string          `csv:"decided_at"`
	FirstName string          `csv:"first_name"`
	LastName  string          `csv:"last_name"`
}

// TAPrefs — запомненные значения для формы создания слотов.
type TAPrefs struct {
	TAID            string `csv:"ta_id"`
	LastMeetingLink string `csv:"last_meeting_link"`
	LastLocation    string `csv:"last_location"`
}

// AuditEvent — строка журнала административных действий.
// MetaJSON — произвольные детали события в JSON.
type AuditEvent struct {
	ID        string `csv:"event_id"`
	TS        string `csv:"ts"`
	ActorTgID int64  `csv:"actor_tg_id"`
	Action    string `csv:"action"`
	Target    string `csv:"target"`
	MetaJSON  string `csv:"meta_json"`
}
