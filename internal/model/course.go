package model

// Week — учебная неделя курса. Дедлайн не хранится, а вычисляется
// от якорной даты первой недели.
type Week struct {
	Number      int    `csv:"week"`
	Title       string `csv:"title"`
	Description string `csv:"description"`
}

// Task — задание недели.
type Task struct {
	ID          string  `csv:"task_id"`
	Week        int     `csv:"week"`
	Title       string  `csv:"title"`
	DeadlineISO string  `csv:"deadline_iso"`
	MaxPoints   float64 `csv:"max_points"`
	Description string  `csv:"description"`
}

// Grade — оценка студента за неделю.
type Grade struct {
	ID          string  `csv:"grade_id"`
	StudentCode string  `csv:"student_code"`
	Week        int     `csv:"week"`
	Points      float64 `csv:"points"`
	Comment     string  `csv:"comment"`
	GradedBy    string  `csv:"graded_by"`
	GradedAt    string  `csv:"graded_at"`
}

// Submission — сданный студентом файл по заданию.
type Submission struct {
	ID          string `csv:"submission_id"`
	TaskID      string `csv:"task_id"`
	StudentCode string `csv:"student_code"`
	TgID        int64  `csv:"tg_id"`
	SubmittedAt string `csv:"submitted_at"`
	FileRef     string `csv:"file_ref"`
	Comment     string `csv:"comment"`
}

// Assignment — назначение TA студенту на неделю.
type Assignment struct {
	StudentCode string `csv:"student_code"`
	Week        int    `csv:"week"`
	TACode      string `csv:"ta_code"`
	CreatedAt   string `csv:"created_at"`
}

// Feedback — свободный отзыв студента.
type Feedback struct {
	ID          string `csv:"feedback_id"`
	StudentTgID int64  `csv:"student_tg_id"`
	Text        string `csv:"text"`
	CreatedAt   string `csv:"created_at"`
	Category    string `csv:"category"`
}
