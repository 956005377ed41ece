package model

type Role string

const (
	RoleOwner   Role = "owner"
	RoleTA      Role = "ta"
	RoleStudent Role = "student"
	RoleUnknown Role = "unknown"
)

// IsTA — owner трактуем как TA (может вести приёмы).
func (r Role) IsTA() bool {
	return r == RoleTA || r == RoleOwner
}

// User — зарегистрированный пользователь бота. Code — внутренний
// идентификатор: student_code для студентов, ta_id для преподавателей.
type User struct {
	TgID      int64  `csv:"tg_id"`
	Role      Role   `csv:"role"`
	FirstName string `csv:"first_name"`
	LastName  string `csv:"last_name"`
	Username  string `csv:"username"`
	Email     string `csv:"email"`
	Code      string `csv:"code"`
	CreatedAt string `csv:"created_at"`
}

// FullName возвращает имя для отображения.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
