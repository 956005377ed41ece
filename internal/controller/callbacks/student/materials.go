package student

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/callbacktypes"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/common/keyboard"
	"github.com/antonzhd/course_admin_bot/internal/model"
)

// HandleMaterialsWeek показывает активные материалы недели
func HandleMaterialsWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	week, err := strconv.Atoi(common.CallbackArg(callback.Data, "materials_week:"))
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
		return
	}

	materials, err := h.MaterialService.ListActive(week)
	if err != nil {
		h.Logger.Error("Failed to list materials", zap.Int("week", week), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	// Студентам показываем только студенческие материалы. Преподаватель
	// и владелец видят всё, включая преподавательские.
	role, err := h.UserService.GetRole(h.EffectiveTgID(callback.From.ID))
	if err != nil {
		h.Logger.Error("Failed to get role", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	kb := keyboard.NewBuilder()
	count := 0
	for _, m := range materials {
		if m.Type == model.MaterialTypeTeacher && !role.IsTA() {
			continue
		}
		label := fmt.Sprintf("📄 Неделя %d (%s)", m.Week, materialTypeTitle(m.Type))
		if m.Link != "" {
			kb.Row(keyboard.URLButton(label+" 🔗", m.Link))
		} else {
			kb.Row(keyboard.Button(label, "material_get:"+m.ID))
		}
		count++
	}

	if count == 0 {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Материалов для этой недели пока нет")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
		fmt.Sprintf("Материалы недели %d:", week), kb.Build()); err != nil {
		h.Logger.Error("Failed to show materials", zap.Error(err))
	}
}

// HandleMaterialGet отправляет файл материала документом
func HandleMaterialGet(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	materialID := common.CallbackArg(callback.Data, "material_get:")

	dl, err := h.MaterialService.Download(ctx, materialID)
	if err != nil {
		h.Logger.Error("Failed to download material", zap.String("material_id", materialID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrMaterialNotFound))
		return
	}

	if dl.Link != "" {
		common.AnswerCallback(ctx, b, callback.ID, "")
		if err := common.EditOrSend(ctx, b, callback, callback.From.ID,
			"🔗 Материал доступен по ссылке:\n"+dl.Link, nil); err != nil {
			h.Logger.Error("Failed to send material link", zap.Error(err))
		}
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: callback.From.ID,
		Document: &models.InputFileUpload{
			Filename: "material_" + materialID,
			Data:     bytes.NewReader(dl.Data),
		},
	})
	if err != nil {
		h.Logger.Error("Failed to send material document", zap.Error(err))
	}
}

func materialTypeTitle(t model.MaterialType) string {
	if t == model.MaterialTypeTeacher {
		return "для преподавателей"
	}
	return "для студентов"
}

