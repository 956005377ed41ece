package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Регистрация студента
	StateRegisterEmail UserState = "register_email"

	// Заявка на роль преподавателя
	StateTARequestMessage UserState = "ta_request_message"

	// Форма создания слотов (окно или одиночный слот)
	StateSlotFormDate     UserState = "slot_form_date"
	StateSlotFormRange    UserState = "slot_form_range"
	StateSlotFormStep     UserState = "slot_form_step"
	StateSlotFormCapacity UserState = "slot_form_capacity"
	StateSlotFormPlace    UserState = "slot_form_place"

	// Отмена слота с указанием причины
	StateCancelSlotReason UserState = "cancel_slot_reason"

	// Выставление оценки
	StateGradeStudent UserState = "grade_student"
	StateGradeWeek    UserState = "grade_week"
	StateGradeValue   UserState = "grade_value"
	StateGradeComment UserState = "grade_comment"

	// Сдача решения
	StateSubmitTask UserState = "submit_task"
	StateSubmitFile UserState = "submit_file"

	// Загрузка материала
	StateMaterialWeek    UserState = "material_week"
	StateMaterialContent UserState = "material_content"

	// Настройки преподавателя
	StatePrefLocation UserState = "pref_location"
	StatePrefLink     UserState = "pref_link"

	// Обратная связь
	StateFeedbackText UserState = "feedback_text"

	// Владелец: добавление задачи
	StateTaskWeek     UserState = "task_week"
	StateTaskTitle    UserState = "task_title"
	StateTaskDeadline UserState = "task_deadline"
	StateTaskPoints   UserState = "task_points"

	// Владелец: импорт недель курса
	StateImportWeeks UserState = "import_weeks"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{}
}
