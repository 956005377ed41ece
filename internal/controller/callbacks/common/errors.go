package common

import "errors"

// Общие ошибки для обработчиков
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNotATA           = errors.New("user is not a TA")
	ErrNotOwner         = errors.New("user is not the owner")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrNoMessage        = errors.New("no message in callback")
	ErrInvalidFormat    = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNotATA):
		return "❌ Эта функция доступна только преподавателям"
	case errors.Is(err, ErrNotOwner):
		return "❌ Эта функция доступна только администратору"
	case errors.Is(err, ErrSlotNotFound):
		return "❌ Слот не найден"
	case errors.Is(err, ErrBookingNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, ErrMaterialNotFound):
		return "❌ Материал не найден"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}
