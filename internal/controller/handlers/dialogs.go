package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/keyboard"
	"github.com/antonzhd/course_admin_bot/internal/controller/state"
	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/service"
)

// HandleTextMessage обрабатывает текстовые сообщения в рамках диалогов.
// Сообщения вне диалога и команды игнорируются.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	tgID := update.Message.From.ID
	text := strings.TrimSpace(update.Message.Text)

	switch h.stateManager.GetState(tgID) {
	case state.StateRegisterEmail:
		h.handleRegisterEmail(ctx, b, update, text)
	case state.StateTARequestMessage:
		h.handleTARequestMessage(ctx, b, update, text)

	case state.StateSlotFormDate:
		h.handleSlotFormDate(ctx, b, update, text)
	case state.StateSlotFormRange:
		h.handleSlotFormRange(ctx, b, update, text)
	case state.StateSlotFormStep:
		h.handleSlotFormStep(ctx, b, update, text)
	case state.StateSlotFormCapacity:
		h.handleSlotFormCapacity(ctx, b, update, text)
	case state.StateSlotFormPlace:
		h.handleSlotFormPlace(ctx, b, update, text)
	case state.StateCancelSlotReason:
		h.handleCancelSlotReason(ctx, b, update, text)

	case state.StateGradeStudent:
		h.handleGradeStudent(ctx, b, update, text)
	case state.StateGradeWeek:
		h.handleGradeWeek(ctx, b, update, text)
	case state.StateGradeValue:
		h.handleGradeValue(ctx, b, update, text)
	case state.StateGradeComment:
		h.handleGradeComment(ctx, b, update, text)

	case state.StateSubmitTask:
		h.handleSubmitTask(ctx, b, update, text)
	case state.StateSubmitFile:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Отправьте решение файлом (документом).")

	case state.StateMaterialWeek:
		h.handleMaterialWeek(ctx, b, update, text)
	case state.StateMaterialContent:
		h.handleMaterialLink(ctx, b, update, text)

	case state.StatePrefLink:
		h.handlePrefValue(ctx, b, update, text, true)
	case state.StatePrefLocation:
		h.handlePrefValue(ctx, b, update, text, false)

	case state.StateFeedbackText:
		h.handleFeedbackText(ctx, b, update, text)

	case state.StateTaskWeek:
		h.handleTaskWeek(ctx, b, update, text)
	case state.StateTaskTitle:
		h.handleTaskTitle(ctx, b, update, text)
	case state.StateTaskDeadline:
		h.handleTaskDeadline(ctx, b, update, text)
	case state.StateTaskPoints:
		h.handleTaskPoints(ctx, b, update, text)
	case state.StateImportWeeks:
		h.handleImportWeeks(ctx, b, update, text)
	}
}

// HandleDocument обрабатывает присланные файлы в рамках диалогов
func (h *Handlers) HandleDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Document == nil {
		return
	}
	tgID := update.Message.From.ID

	switch h.stateManager.GetState(tgID) {
	case state.StateSubmitFile:
		h.handleSubmitDocument(ctx, b, update)
	case state.StateMaterialContent:
		h.handleMaterialDocument(ctx, b, update)
	}
}

// ===== Регистрация =====

func (h *Handlers) handleRegisterEmail(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	from := update.Message.From
	tgID := h.effectiveTgID(from.ID)

	user, err := h.userService.RegisterStudent(tgID, text, from.FirstName, from.LastName, from.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotInRoster):
			h.sendError(ctx, b, chatID, "❌ Такой почты нет в списке курса. Проверьте написание или обратитесь к администратору.")
		case errors.Is(err, service.ErrCodeAlreadyLinked):
			h.sendError(ctx, b, chatID, "❌ Эта почта уже привязана к другому аккаунту Telegram.")
		default:
			h.logger.Error("Failed to register student", zap.Int64("tg_id", tgID), zap.Error(err))
			h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		}
		return
	}

	h.stateManager.ClearState(from.ID)
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Вы зарегистрированы!\nВаш код: %s\n\nЗаписаться на сдачу: /book", user.Code))
}

// ===== Заявка на роль преподавателя =====

func (h *Handlers) handleTARequestMessage(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	from := update.Message.From

	req, err := h.taService.CreatePending(from.ID, from.FirstName, from.LastName)
	if err != nil {
		h.logger.Error("Failed to create TA request", zap.Int64("tg_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	h.stateManager.ClearState(from.ID)

	byInvite := h.taInviteCode != "" && text == h.taInviteCode
	if byInvite {
		h.sendMessage(ctx, b, chatID, "✅ Код приглашения принят. Администратор назначит вам код преподавателя.")
	} else {
		h.sendMessage(ctx, b, chatID, "✅ Заявка отправлена, администратор её рассмотрит.")
	}

	// Уведомляем владельца
	if h.ownerTgID == 0 {
		return
	}
	note := fmt.Sprintf("Новая заявка на роль преподавателя.\n%s %s (tg:%d)", req.FirstName, req.LastName, req.TgID)
	if byInvite {
		note += "\n🔑 Указан верный код приглашения."
	} else if text != "" {
		note += "\n\n" + text
	}
	kb := keyboard.NewBuilder().Row(
		keyboard.Button("✅ Одобрить", fmt.Sprintf("req_approve:%d", req.TgID)),
		keyboard.Button("❌ Отклонить", fmt.Sprintf("req_reject:%d", req.TgID)),
	)
	h.sendWithKeyboard(ctx, b, h.ownerTgID, note, kb.Build())
}

// ===== Форма создания слотов =====

func (h *Handlers) handleSlotFormDate(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	if _, err := model.ParseDate(text); err != nil {
		h.sendError(ctx, b, chatID, "❌ Неверная дата. Формат ГГГГ-ММ-ДД, например 2026-09-07")
		return
	}

	h.stateManager.SetData(tgID, "form_date", text)
	h.stateManager.SetState(tgID, state.StateSlotFormRange)
	h.sendMessage(ctx, b, chatID, "🕐 Интервал? Формат ЧЧ:ММ-ЧЧ:ММ, например 10:00-13:00")
}

func (h *Handlers) handleSlotFormRange(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	from, to, ok := parseClockRange(text)
	if !ok {
		h.sendError(ctx, b, chatID, "❌ Неверный интервал. Формат ЧЧ:ММ-ЧЧ:ММ, например 10:00-13:00")
		return
	}

	h.stateManager.SetData(tgID, "form_from", from)
	h.stateManager.SetData(tgID, "form_to", to)

	if h.stateManager.GetString(tgID, "form_kind") == "window" {
		h.stateManager.SetState(tgID, state.StateSlotFormStep)
		h.sendMessage(ctx, b, chatID, "⏱ Длительность одного слота в минутах? От 5 до 120.")
		return
	}

	h.stateManager.SetState(tgID, state.StateSlotFormCapacity)
	h.sendMessage(ctx, b, chatID, "👥 Вместимость слота? От 1 до 20.")
}

func (h *Handlers) handleSlotFormStep(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	step, err := strconv.Atoi(text)
	if err != nil || step < service.MinSlotDurationMin || step > service.MaxSlotDurationMin {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Длительность — целое число от %d до %d минут",
			service.MinSlotDurationMin, service.MaxSlotDurationMin))
		return
	}

	h.stateManager.SetData(tgID, "form_step", step)
	h.stateManager.SetState(tgID, state.StateSlotFormCapacity)
	h.sendMessage(ctx, b, chatID, "👥 Вместимость каждого слота? От 1 до 20.")
}

func (h *Handlers) handleSlotFormCapacity(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	capacity, err := strconv.Atoi(text)
	if err != nil || capacity < 1 || capacity > service.MaxCapacity {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Вместимость — целое число от 1 до %d", service.MaxCapacity))
		return
	}

	h.stateManager.SetData(tgID, "form_capacity", capacity)
	h.stateManager.SetState(tgID, state.StateSlotFormPlace)

	kb := keyboard.NewBuilder().Row(
		keyboard.Button("💻 Онлайн", "slot_mode:online"),
		keyboard.Button("🏫 Очно", "slot_mode:offline"),
	)
	h.sendWithKeyboard(ctx, b, chatID, "Формат встречи?", kb.Build())
}

func (h *Handlers) handleSlotFormPlace(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	mode := h.stateManager.GetString(tgID, "form_mode")
	if mode == "" {
		h.sendMessage(ctx, b, chatID, "Сначала выберите формат кнопкой выше.")
		return
	}

	taID, err := h.userService.TAIDByTg(h.effectiveTgID(tgID))
	if err != nil || taID == "" {
		h.sendError(ctx, b, chatID, "❌ Не удалось определить ваш код преподавателя.")
		h.stateManager.ClearState(tgID)
		return
	}

	prefs, err := h.taService.Prefs(taID)
	if err != nil {
		h.logger.Error("Failed to load prefs", zap.String("ta_id", taID), zap.Error(err))
	}

	var location, link string
	if mode == string(model.SlotModeOnline) {
		link = text
		if link == "-" {
			link = prefs.LastMeetingLink
		}
		if link == "" {
			h.sendError(ctx, b, chatID, "❌ Для онлайн-слота нужна ссылка на встречу.")
			return
		}
		if err := h.taService.RememberLink(taID, link); err != nil {
			h.logger.Error("Failed to remember link", zap.Error(err))
		}
	} else {
		location = text
		if location == "-" {
			location = prefs.LastLocation
		}
		if location == "" {
			location = service.DefaultLocation
		}
		if err := h.taService.RememberLocation(taID, location); err != nil {
			h.logger.Error("Failed to remember location", zap.Error(err))
		}
	}

	date := h.stateManager.GetString(tgID, "form_date")
	fromClock := h.stateManager.GetString(tgID, "form_from")
	toClock := h.stateManager.GetString(tgID, "form_to")
	capacity := h.stateManager.GetInt(tgID, "form_capacity")
	kind := h.stateManager.GetString(tgID, "form_kind")
	step := h.stateManager.GetInt(tgID, "form_step")

	h.stateManager.ClearState(tgID)

	if kind == "window" {
		result, err := h.slotService.CreateWindow(taID, date, fromClock, toClock,
			step, capacity, model.SlotMode(mode), location, link)
		if err != nil {
			h.sendError(ctx, b, chatID, slotFormErrorMessage(err))
			return
		}

		text := fmt.Sprintf("✅ Создано слотов: %d", len(result.Created))
		for _, s := range result.Created {
			text += fmt.Sprintf("\n• %s–%s", s.TimeFrom, s.TimeTo)
		}
		if len(result.Skipped) > 0 {
			text += "\n\n⚠️ Пропущено из-за пересечений:"
			for _, sk := range result.Skipped {
				text += fmt.Sprintf("\n• %s–%s", sk.From, sk.To)
			}
		}
		h.sendMessage(ctx, b, chatID, text)
		return
	}

	slot, err := h.slotService.CreateSlot(taID, date, fromClock, toClock,
		model.SlotMode(mode), capacity, location, link, 0)
	if err != nil {
		h.sendError(ctx, b, chatID, slotFormErrorMessage(err))
		return
	}
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Слот создан: %s %s–%s", slot.Date, slot.TimeFrom, slot.TimeTo))
}

func (h *Handlers) handleCancelSlotReason(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	slotID := h.stateManager.GetString(tgID, "cancel_slot_id")
	h.stateManager.ClearState(tgID)
	if slotID == "" {
		h.sendError(ctx, b, chatID, "❌ Слот для отмены не выбран.")
		return
	}

	reason := text
	if reason == "-" {
		reason = ""
	}

	canceledBy, err := h.userService.TAIDByTg(h.effectiveTgID(tgID))
	if err != nil {
		canceledBy = ""
	}

	ok, err := h.slotService.Cancel(slotID, canceledBy, reason)
	if err != nil {
		h.logger.Error("Failed to cancel slot", zap.String("slot_id", slotID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if !ok {
		h.sendMessage(ctx, b, chatID, "Слот уже отменён.")
		return
	}

	// Предупреждаем записанных студентов
	bookings, err := h.bookingService.ListForSlot(slotID)
	if err == nil {
		for _, bk := range bookings {
			if bk.Status != model.BookingStatusActive {
				continue
			}
			h.sendMessage(ctx, b, bk.StudentTgID,
				"⚠️ Слот, на который вы были записаны, отменён преподавателем. Выберите другой: /book")
		}
	}

	h.sendMessage(ctx, b, chatID, "✅ Слот отменён.")
}

// ===== Оценки =====

func (h *Handlers) handleGradeStudent(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	tgID := update.Message.From.ID

	h.stateManager.SetData(tgID, "grade_student", strings.ToUpper(text))
	h.stateManager.SetState(tgID, state.StateGradeWeek)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "Номер недели?")
}

func (h *Handlers) handleGradeWeek(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	week, err := strconv.Atoi(text)
	if err != nil || week < 1 {
		h.sendError(ctx, b, chatID, "❌ Номер недели — целое число начиная с 1")
		return
	}

	h.stateManager.SetData(tgID, "grade_week", week)
	h.stateManager.SetState(tgID, state.StateGradeValue)
	h.sendMessage(ctx, b, chatID, "Сколько баллов? Например 8.5")
}

func (h *Handlers) handleGradeValue(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	points, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || points < 0 {
		h.sendError(ctx, b, chatID, "❌ Баллы — неотрицательное число, например 8.5")
		return
	}

	h.stateManager.SetData(tgID, "grade_points", text)
	h.stateManager.SetState(tgID, state.StateGradeComment)
	h.sendMessage(ctx, b, chatID, "Комментарий к оценке? Отправьте «-», если без комментария.")
}

func (h *Handlers) handleGradeComment(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	comment := text
	if comment == "-" {
		comment = ""
	}

	studentCode := h.stateManager.GetString(tgID, "grade_student")
	week := h.stateManager.GetInt(tgID, "grade_week")
	points, _ := strconv.ParseFloat(
		strings.ReplaceAll(h.stateManager.GetString(tgID, "grade_points"), ",", "."), 64)
	h.stateManager.ClearState(tgID)

	gradedBy, err := h.userService.TAIDByTg(h.effectiveTgID(tgID))
	if err != nil {
		gradedBy = ""
	}

	if _, err := h.gradeService.AddGrade(update.Message.From.ID, studentCode, week, points, comment, gradedBy); err != nil {
		h.logger.Error("Failed to add grade", zap.String("student_code", studentCode), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Оценка выставлена: %s, неделя %d — %.1f", studentCode, week, points))
}

// ===== Сдача решений =====

func (h *Handlers) handleSubmitTask(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	task, err := h.courseService.GetTask(text)
	if err != nil {
		h.logger.Error("Failed to get task", zap.String("task_id", text), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if task == nil {
		h.sendError(ctx, b, chatID, "❌ Задание с таким ID не найдено.")
		return
	}

	h.stateManager.SetData(tgID, "submit_task", task.ID)
	h.stateManager.SetState(tgID, state.StateSubmitFile)
	h.sendMessage(ctx, b, chatID,
		"📎 Отправьте решение файлом (документом). Подпись к файлу станет комментарием.")
}

func (h *Handlers) handleSubmitDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID
	doc := update.Message.Document

	taskID := h.stateManager.GetString(tgID, "submit_task")
	h.stateManager.ClearState(tgID)
	if taskID == "" {
		h.sendError(ctx, b, chatID, "❌ Сначала выберите задание: /submit")
		return
	}

	data, err := h.downloadTelegramFile(ctx, b, doc.FileID)
	if err != nil {
		h.logger.Error("Failed to download submission", zap.String("file_id", doc.FileID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось скачать файл. Попробуйте ещё раз.")
		return
	}

	effTg := h.effectiveTgID(tgID)
	code, err := h.userService.StudentCodeByTg(effTg)
	if err != nil {
		code = ""
	}

	_, err = h.submissionService.SaveSubmission(ctx, effTg, code, taskID,
		doc.FileName, data, update.Message.Caption)
	if err != nil {
		h.logger.Error("Failed to save submission", zap.String("task_id", taskID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось сохранить решение. Попробуйте позже.")
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Решение принято!")
}

// ===== Материалы =====

func (h *Handlers) handleMaterialWeek(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	week, err := strconv.Atoi(text)
	if err != nil || week < 1 {
		h.sendError(ctx, b, chatID, "❌ Номер недели — целое число начиная с 1")
		return
	}

	h.stateManager.SetData(tgID, "material_week", week)
	h.stateManager.SetState(tgID, state.StateMaterialContent)

	kb := keyboard.NewBuilder().Row(
		keyboard.Button("👨‍🎓 Для студентов", "matype:student"),
		keyboard.Button("👨‍🏫 Для преподавателей", "matype:teacher"),
	)
	h.sendWithKeyboard(ctx, b, chatID, "Для кого материал?", kb.Build())
}

func (h *Handlers) handleMaterialLink(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	mtype := h.stateManager.GetString(tgID, "material_type")
	if mtype == "" {
		h.sendMessage(ctx, b, chatID, "Сначала выберите тип материала кнопкой выше.")
		return
	}
	if !strings.HasPrefix(text, "http://") && !strings.HasPrefix(text, "https://") {
		h.sendError(ctx, b, chatID, "❌ Отправьте ссылку (http/https) или файл документом.")
		return
	}

	week := h.stateManager.GetInt(tgID, "material_week")
	h.stateManager.ClearState(tgID)

	m, err := h.materialService.UploadLink(week, model.MaterialType(mtype), text, update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to upload material link", zap.Int("week", week), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось сохранить материал.")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Материал сохранён (неделя %d, id %s)", m.Week, m.ID))
}

func (h *Handlers) handleMaterialDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID
	doc := update.Message.Document

	mtype := h.stateManager.GetString(tgID, "material_type")
	if mtype == "" {
		h.sendMessage(ctx, b, chatID, "Сначала выберите тип материала кнопкой выше.")
		return
	}

	week := h.stateManager.GetInt(tgID, "material_week")
	h.stateManager.ClearState(tgID)

	data, err := h.downloadTelegramFile(ctx, b, doc.FileID)
	if err != nil {
		h.logger.Error("Failed to download material", zap.String("file_id", doc.FileID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось скачать файл. Попробуйте ещё раз.")
		return
	}

	m, err := h.materialService.UploadFile(ctx, week, model.MaterialType(mtype), data, update.Message.From.ID)
	if err != nil {
		if errors.Is(err, service.ErrSizeLimit) {
			h.sendError(ctx, b, chatID, "❌ Файл слишком большой, лимит 100 МБ.")
			return
		}
		h.logger.Error("Failed to upload material file", zap.Int("week", week), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось сохранить материал.")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Материал сохранён (неделя %d, id %s)", m.Week, m.ID))
}

// ===== Настройки преподавателя =====

func (h *Handlers) handlePrefValue(ctx context.Context, b *bot.Bot, update *models.Update, text string, isLink bool) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID
	h.stateManager.ClearState(tgID)

	taID, err := h.userService.TAIDByTg(h.effectiveTgID(tgID))
	if err != nil || taID == "" {
		h.sendError(ctx, b, chatID, "❌ Не удалось определить ваш код преподавателя.")
		return
	}

	if isLink {
		err = h.taService.RememberLink(taID, text)
	} else {
		err = h.taService.RememberLocation(taID, text)
	}
	if err != nil {
		h.logger.Error("Failed to save pref", zap.String("ta_id", taID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось сохранить значение.")
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Сохранено.")
}

// ===== Отзывы =====

func (h *Handlers) handleFeedbackText(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID
	h.stateManager.ClearState(tgID)

	if _, err := h.feedbackService.Add(h.effectiveTgID(tgID), text, ""); err != nil {
		h.logger.Error("Failed to save feedback", zap.Int64("tg_id", tgID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось сохранить отзыв.")
		return
	}

	h.sendMessage(ctx, b, chatID, "💙 Спасибо за отзыв!")
}

// ===== Задания и недели (владелец) =====

func (h *Handlers) handleTaskWeek(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	week, err := strconv.Atoi(text)
	if err != nil || week < 1 {
		h.sendError(ctx, b, chatID, "❌ Номер недели — целое число начиная с 1")
		return
	}

	h.stateManager.SetData(tgID, "task_week", week)
	h.stateManager.SetState(tgID, state.StateTaskTitle)
	h.sendMessage(ctx, b, chatID, "Название задания?")
}

func (h *Handlers) handleTaskTitle(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	tgID := update.Message.From.ID

	h.stateManager.SetData(tgID, "task_title", text)
	h.stateManager.SetState(tgID, state.StateTaskDeadline)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "Дедлайн? Формат ГГГГ-ММ-ДД")
}

func (h *Handlers) handleTaskDeadline(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	if _, err := model.ParseDate(text); err != nil {
		h.sendError(ctx, b, chatID, "❌ Неверная дата. Формат ГГГГ-ММ-ДД")
		return
	}

	h.stateManager.SetData(tgID, "task_deadline", text)
	h.stateManager.SetState(tgID, state.StateTaskPoints)
	h.sendMessage(ctx, b, chatID, "Максимум баллов? Например 10")
}

func (h *Handlers) handleTaskPoints(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	points, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || points <= 0 {
		h.sendError(ctx, b, chatID, "❌ Максимум баллов — положительное число")
		return
	}

	week := h.stateManager.GetInt(tgID, "task_week")
	title := h.stateManager.GetString(tgID, "task_title")
	deadline := h.stateManager.GetString(tgID, "task_deadline")
	h.stateManager.ClearState(tgID)

	task, err := h.courseService.AddTask(week, title, deadline, points, "")
	if err != nil {
		h.logger.Error("Failed to add task", zap.Int("week", week), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось создать задание.")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Задание создано: %s (неделя %d, до %s)", task.ID, task.Week, deadline))
}

func (h *Handlers) handleImportWeeks(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	chatID := update.Message.Chat.ID
	tgID := update.Message.From.ID

	var weeks []model.Week
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ";", 3)
		if len(parts) < 2 {
			h.sendError(ctx, b, chatID, "❌ Неверная строка: "+line+"\nФормат: номер;название;описание")
			return
		}
		number, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || number < 1 {
			h.sendError(ctx, b, chatID, "❌ Неверный номер недели в строке: "+line)
			return
		}
		week := model.Week{Number: number, Title: strings.TrimSpace(parts[1])}
		if len(parts) == 3 {
			week.Description = strings.TrimSpace(parts[2])
		}
		weeks = append(weeks, week)
	}

	if len(weeks) == 0 {
		h.sendError(ctx, b, chatID, "❌ Не удалось разобрать ни одной недели.")
		return
	}

	h.stateManager.ClearState(tgID)

	if err := h.courseService.ImportWeeks(weeks); err != nil {
		h.logger.Error("Failed to import weeks", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось сохранить недели.")
		return
	}

	h.auditService.Log(tgID, "WEEKS_IMPORT", "", map[string]any{"count": len(weeks)})
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Загружено недель: %d", len(weeks)))
}

// parseClockRange разбирает интервал вида "10:00-13:00"
func parseClockRange(s string) (from, to string, ok bool) {
	parts := strings.SplitN(strings.ReplaceAll(s, "—", "-"), "-", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	from = strings.TrimSpace(parts[0])
	to = strings.TrimSpace(parts[1])
	if _, err := model.ParseClock(from); err != nil {
		return "", "", false
	}
	if _, err := model.ParseClock(to); err != nil {
		return "", "", false
	}
	return from, to, true
}

// slotFormErrorMessage переводит ошибки валидации слотов в текст для пользователя
func slotFormErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrBadTimeRange):
		return "❌ Конец интервала должен быть позже начала."
	case errors.Is(err, service.ErrBadDuration):
		return fmt.Sprintf("❌ Длительность слота — от %d до %d минут.",
			service.MinSlotDurationMin, service.MaxSlotDurationMin)
	case errors.Is(err, service.ErrBadCapacity):
		return fmt.Sprintf("❌ Вместимость — от 1 до %d.", service.MaxCapacity)
	case errors.Is(err, service.ErrWindowTooLong):
		return "❌ Окно длиннее 6 часов, разбейте его на части."
	default:
		return "❌ Не удалось создать слоты. Попробуйте позже."
	}
}
