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

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/formatting"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/keyboard"
	"github.com/antonzhd/course_admin_bot/internal/controller/state"
	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/service"
)

// HandleMySlots показывает слоты преподавателя по датам
func (h *Handlers) HandleMySlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTA(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	taID, err := h.userService.TAIDByTg(user.TgID)
	if err != nil || taID == "" {
		h.logger.Error("Failed to resolve TA id", zap.Int64("tg_id", user.TgID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось определить ваш код преподавателя.")
		return
	}

	views, err := h.bookingService.ListViewsForTA(taID)
	if err != nil {
		h.logger.Error("Failed to list TA slots", zap.String("ta_id", taID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(views) == 0 {
		h.sendMessage(ctx, b, chatID, "У вас пока нет слотов. Создайте окно: /createwindow")
		return
	}

	text := "Ваши слоты:\n"
	kb := keyboard.NewBuilder()
	seen := make(map[string]bool)
	for i := range views {
		v := &views[i]
		text += "\n" + formatting.FormatSlotLine(v)
		if !seen[v.Slot.Date] {
			seen[v.Slot.Date] = true
			kb.Row(keyboard.Button("📅 "+v.Slot.Date, "myslots_date:"+v.Slot.Date))
		}
	}

	h.sendWithKeyboard(ctx, b, chatID, text, kb.Build())
}

// HandleCreateWindow запускает форму нарезки окна на слоты
func (h *Handlers) HandleCreateWindow(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.startSlotForm(ctx, b, update, "window")
}

// HandleCreateSlot запускает форму создания одиночного слота
func (h *Handlers) HandleCreateSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.startSlotForm(ctx, b, update, "single")
}

func (h *Handlers) startSlotForm(ctx context.Context, b *bot.Bot, update *models.Update, kind string) {
	if _, ok := h.requireTA(ctx, b, update); !ok {
		return
	}
	tgID := update.Message.From.ID

	h.stateManager.ClearState(tgID)
	h.stateManager.SetData(tgID, "form_kind", kind)
	h.stateManager.SetState(tgID, state.StateSlotFormDate)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📅 Дата? Формат ГГГГ-ММ-ДД, например 2026-09-07. Прервать: /cancel")
}

// HandleSetGrade запускает диалог выставления оценки
func (h *Handlers) HandleSetGrade(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireTA(ctx, b, update); !ok {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateGradeStudent)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Код студента? Например ST-042. Прервать: /cancel")
}

// HandleUploadMaterial запускает диалог загрузки материала
func (h *Handlers) HandleUploadMaterial(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireTA(ctx, b, update); !ok {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateMaterialWeek)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Номер недели для материала? Прервать: /cancel")
}

// HandleMaterialHistory — /mathistory <неделя> <student|teacher>
func (h *Handlers) HandleMaterialHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireTA(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 3 {
		h.sendMessage(ctx, b, chatID, "Формат: /mathistory <неделя> <student|teacher>")
		return
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil || week < 1 {
		h.sendError(ctx, b, chatID, "❌ Неверный номер недели")
		return
	}
	mtype := model.MaterialType(parts[2])
	if mtype != model.MaterialTypeStudent && mtype != model.MaterialTypeTeacher {
		h.sendError(ctx, b, chatID, "❌ Тип материала: student или teacher")
		return
	}

	history, err := h.materialService.History(week, mtype)
	if err != nil {
		h.logger.Error("Failed to list material history", zap.Int("week", week), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if len(history) == 0 {
		h.sendMessage(ctx, b, chatID, "Версий материала нет.")
		return
	}

	text := fmt.Sprintf("Версии материала (неделя %d, %s):\n", week, mtype)
	for _, m := range history {
		marker := "📦"
		if m.State == model.MaterialStateActive {
			marker = "✅"
		}
		text += fmt.Sprintf("\n%s %s — %s", marker, m.ID, m.CreatedAt)
	}
	h.sendMessage(ctx, b, chatID, text)
}

// HandleDeleteMaterial — /delmaterial <id>: активный материал
// архивируется, архивный удаляется навсегда.
func (h *Handlers) HandleDeleteMaterial(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireTA(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 2 {
		h.sendMessage(ctx, b, chatID, "Формат: /delmaterial <id материала>")
		return
	}
	materialID := parts[1]
	actor := update.Message.From.ID

	err := h.materialService.SoftDelete(materialID, actor)
	switch {
	case err == nil:
		h.sendMessage(ctx, b, chatID, "✅ Материал перенесён в архив. Повторный /delmaterial удалит его навсегда.")
	case errors.Is(err, service.ErrMaterialState):
		if err := h.materialService.HardDelete(materialID, actor); err != nil {
			h.logger.Error("Failed to hard-delete material", zap.String("material_id", materialID), zap.Error(err))
			h.sendError(ctx, b, chatID, "❌ Не удалось удалить материал.")
			return
		}
		h.sendMessage(ctx, b, chatID, "🗑 Материал удалён навсегда.")
	case errors.Is(err, service.ErrMaterialNotFound):
		h.sendError(ctx, b, chatID, "❌ Материал не найден.")
	default:
		h.logger.Error("Failed to delete material", zap.String("material_id", materialID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
	}
}

// HandlePrefs показывает запомненные значения и кнопки их смены
func (h *Handlers) HandlePrefs(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireTA(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	taID, err := h.userService.TAIDByTg(user.TgID)
	if err != nil || taID == "" {
		h.sendError(ctx, b, chatID, "❌ Не удалось определить ваш код преподавателя.")
		return
	}

	prefs, err := h.taService.Prefs(taID)
	if err != nil {
		h.logger.Error("Failed to load prefs", zap.String("ta_id", taID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	link := prefs.LastMeetingLink
	if link == "" {
		link = "не задана"
	}

	text := fmt.Sprintf("⚙️ Ваши значения по умолчанию:\n\n🔗 Ссылка: %s\n📍 Аудитория: %s\n\n"+
		"Сменить: /setlink или /setlocation", link, prefs.LastLocation)
	h.sendMessage(ctx, b, chatID, text)
}

// HandleSetLink запускает смену ссылки по умолчанию
func (h *Handlers) HandleSetLink(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireTA(ctx, b, update); !ok {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StatePrefLink)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "Отправьте новую ссылку на встречу:")
}

// HandleSetLocation запускает смену аудитории по умолчанию
func (h *Handlers) HandleSetLocation(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireTA(ctx, b, update); !ok {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StatePrefLocation)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "Отправьте новую аудиторию:")
}
