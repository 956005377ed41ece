package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/keyboard"
	"github.com/antonzhd/course_admin_bot/internal/controller/state"
	"github.com/antonzhd/course_admin_bot/internal/model"
)

// HandleStart приветствует пользователя и показывает главное меню
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	tgID := h.effectiveTgID(update.Message.From.ID)

	h.stateManager.ClearState(update.Message.From.ID)

	user, err := h.userService.GetByTgID(tgID)
	if err != nil {
		h.logger.Error("Failed to get user on /start", zap.Int64("tg_id", tgID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if user == nil {
		h.sendMessage(ctx, b, chatID,
			"👋 Привет! Это бот курса.\n\n"+
				"Для начала зарегистрируйтесь по почте из списка курса: /register\n"+
				"Справка: /help")
		return
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📝 Записаться на сдачу", "ta_list")).
		Row(keyboard.Button("📅 Мои записи", "my_bookings"))

	text := fmt.Sprintf("👋 Привет, %s!", user.FullName())
	if user.Role.IsTA() {
		kb.Row(keyboard.Button("🗓 Мои слоты", "myslots"))
		text += "\n\nВы преподаватель. Команды: /myslots /createwindow /createslot /setgrade /uploadmaterial /prefs"
	}

	h.sendWithKeyboard(ctx, b, chatID, text, kb.Build())
}

// HandleHelp показывает справку по командам
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := "📖 Команды:\n\n" +
		"/register — регистрация по почте\n" +
		"/book — записаться на сдачу\n" +
		"/mybookings — мои записи\n" +
		"/grades — мои оценки\n" +
		"/week — текущие недели и задания\n" +
		"/materials — материалы курса\n" +
		"/submit — сдать решение\n" +
		"/feedback — оставить отзыв\n" +
		"/becometa — заявка на роль преподавателя\n" +
		"/cancel — прервать текущий диалог\n\n" +
		"Преподавателям:\n" +
		"/myslots — мои слоты\n" +
		"/createwindow — нарезать окно на слоты\n" +
		"/createslot — создать одиночный слот\n" +
		"/setgrade — выставить оценку\n" +
		"/uploadmaterial — загрузить материал\n" +
		"/prefs — ссылка и аудитория по умолчанию"

	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandleRegister запускает диалог регистрации студента
func (h *Handlers) HandleRegister(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateRegisterEmail)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📧 Отправьте вашу почту из списка курса:")
}

// HandleBook показывает список преподавателей для записи
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}

	tas, err := h.userService.ListRosterTAs()
	if err != nil {
		h.logger.Error("Failed to list TAs", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(tas) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Список преподавателей пока пуст.")
		return
	}

	kb := keyboard.NewBuilder()
	for _, ta := range tas {
		kb.Row(keyboard.Button("👨‍🏫 "+ta.FullName(), "ta_dates:"+ta.TAID))
	}

	h.sendWithKeyboard(ctx, b, update.Message.Chat.ID, "Выберите преподавателя:", kb.Build())
}

// HandleMyBookings показывает активные записи студента
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID
	tgID := h.effectiveTgID(update.Message.From.ID)

	bookings, err := h.bookingService.ListStudentBookings(tgID)
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.Int64("tg_id", tgID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	kb := keyboard.NewBuilder()
	text := "Ваши записи:\n"
	count := 0
	for _, sb := range bookings {
		if sb.Booking.Status != model.BookingStatusActive || sb.Slot == nil {
			continue
		}
		count++
		text += fmt.Sprintf("\n📅 %s %s–%s — %s",
			sb.Slot.Date, sb.Slot.TimeFrom, sb.Slot.TimeTo,
			h.userService.RosterTAName(sb.Slot.TAID))
		kb.Row(keyboard.Button(
			fmt.Sprintf("❌ Отменить %s %s", sb.Slot.Date, sb.Slot.TimeFrom),
			"cancel_booking:"+sb.Booking.ID))
	}

	if count == 0 {
		h.sendMessage(ctx, b, chatID, "У вас нет активных записей. Записаться: /book")
		return
	}

	h.sendWithKeyboard(ctx, b, chatID, text, kb.Build())
}

// HandleGrades показывает оценки студента
func (h *Handlers) HandleGrades(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	if user.Code == "" {
		h.sendMessage(ctx, b, chatID, "У вас нет кода студента. Зарегистрируйтесь: /register")
		return
	}

	grades, err := h.gradeService.ListForStudent(user.Code)
	if err != nil {
		h.logger.Error("Failed to list grades", zap.String("student_code", user.Code), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(grades) == 0 {
		h.sendMessage(ctx, b, chatID, "Оценок пока нет.")
		return
	}

	text := "📊 Ваши оценки:\n"
	for _, g := range grades {
		text += fmt.Sprintf("\nНеделя %d: %.1f", g.Week, g.Points)
		if g.Comment != "" {
			text += " — " + g.Comment
		}
	}
	h.sendMessage(ctx, b, chatID, text)
}

// HandleWeek показывает текущие недели курса с заданиями и дедлайнами
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	weeks, err := h.courseService.CurrentWeeks()
	if err != nil {
		h.logger.Error("Failed to list current weeks", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(weeks) == 0 {
		h.sendMessage(ctx, b, chatID, "Активных недель сейчас нет.")
		return
	}

	text := "📚 Текущие недели:\n"
	for _, w := range weeks {
		text += fmt.Sprintf("\nНеделя %d — %s\nДедлайн: %s\n",
			w.Week.Number, w.Week.Title, w.Deadline.Format("02.01.2006"))
		if user.Code != "" {
			if taCode, err := h.assignmentService.TAForStudentWeek(user.Code, w.Week.Number); err == nil && taCode != "" {
				text += "Принимает: " + h.userService.RosterTAName(taCode) + "\n"
			}
		}
		tasks, err := h.courseService.ListTasksForWeek(w.Week.Number)
		if err != nil {
			continue
		}
		for _, t := range tasks {
			text += fmt.Sprintf("  • %s (до %.0f баллов)\n", t.Title, t.MaxPoints)
		}
	}
	h.sendMessage(ctx, b, chatID, text)
}

// HandleMaterials показывает выбор недели для материалов
func (h *Handlers) HandleMaterials(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	weeks, err := h.courseService.ListWeeks()
	if err != nil {
		h.logger.Error("Failed to list weeks", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(weeks) == 0 {
		h.sendMessage(ctx, b, chatID, "Недели курса ещё не загружены.")
		return
	}

	kb := keyboard.NewBuilder()
	var row []models.InlineKeyboardButton
	for _, w := range weeks {
		row = append(row, keyboard.Button(
			strconv.Itoa(w.Week.Number),
			"materials_week:"+strconv.Itoa(w.Week.Number)))
		if len(row) == 5 {
			kb.Row(row...)
			row = nil
		}
	}
	kb.Row(row...)

	h.sendWithKeyboard(ctx, b, chatID, "Выберите неделю:", kb.Build())
}

// HandleSubmit запускает диалог сдачи решения
func (h *Handlers) HandleSubmit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	tasks, err := h.courseService.ListTasks()
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(tasks) == 0 {
		h.sendMessage(ctx, b, chatID, "Заданий пока нет.")
		return
	}

	text := "Задания:\n"
	for _, t := range tasks {
		text += fmt.Sprintf("\n%s — неделя %d, %s", t.ID, t.Week, t.Title)
	}
	text += "\n\nОтправьте ID задания:"

	h.stateManager.SetState(update.Message.From.ID, state.StateSubmitTask)
	h.sendMessage(ctx, b, chatID, text)
}

// HandleFeedback запускает диалог отзыва
func (h *Handlers) HandleFeedback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateFeedbackText)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"💬 Напишите ваш отзыв или предложение одним сообщением. Прервать: /cancel")
}

// HandleBecomeTA запускает подачу заявки на роль преподавателя
func (h *Handlers) HandleBecomeTA(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	role, err := h.userService.GetRole(tgID)
	if err != nil {
		h.logger.Error("Failed to get role", zap.Int64("tg_id", tgID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if role.IsTA() {
		h.sendMessage(ctx, b, chatID, "Вы уже преподаватель 🎓")
		return
	}

	status, err := h.taService.RequestStatus(tgID)
	if err != nil {
		h.logger.Error("Failed to get request status", zap.Int64("tg_id", tgID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if status == string(model.TARequestPending) {
		h.sendMessage(ctx, b, chatID, "⏳ Ваша заявка уже на рассмотрении.")
		return
	}

	h.stateManager.SetState(tgID, state.StateTARequestMessage)
	prompt := "Отправьте пару слов о себе — заявка уйдёт администратору."
	if h.taInviteCode != "" {
		prompt += "\nЕсли у вас есть код приглашения, просто отправьте его."
	}
	h.sendMessage(ctx, b, chatID, prompt)
}

// HandleCancelDialog прерывает текущий диалог
func (h *Handlers) HandleCancelDialog(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.ClearState(update.Message.From.ID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "Диалог прерван. /help — список команд")
}
