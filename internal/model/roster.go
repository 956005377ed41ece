package model

import "strings"

// RosterEntry — строка ростера курса. tg_id пустой, пока студент
// не привязал себя регистрацией по email.
type RosterEntry struct {
	StudentCode string `csv:"student_code"`
	Email       string `csv:"email"`
	LastName    string `csv:"last_name"`
	FirstName   string `csv:"first_name"`
	MiddleName  string `csv:"middle_name"`
	Group       string `csv:"group"`
	TgID        int64  `csv:"tg_id"`
	Role        Role   `csv:"role"`
}

// RosterTA — преподаватель из отдельного ростера TA.
type RosterTA struct {
	TAID       string `csv:"ta_id"`
	LastName   string `csv:"last_name"`
	FirstName  string `csv:"first_name"`
	MiddleName string `csv:"middle_name"`
}

// FullName склеивает ФИО, пропуская пустые части.
func (t *RosterTA) FullName() string {
	parts := []string{t.LastName, t.FirstName, t.MiddleName}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, " ")
}
