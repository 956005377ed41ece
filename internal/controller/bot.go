package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks"
	"github.com/antonzhd/course_admin_bot/internal/controller/callbacks/callbacktypes"
	"github.com/antonzhd/course_admin_bot/internal/controller/handlers"
	"github.com/antonzhd/course_admin_bot/internal/controller/state"
	"github.com/antonzhd/course_admin_bot/internal/service"
)

// Services — сервисный слой, от которого зависит контроллер.
type Services struct {
	User       *service.UserService
	Booking    *service.BookingService
	Slot       *service.SlotService
	TA         *service.TAService
	Material   *service.MaterialService
	Course     *service.CourseService
	Grade      *service.GradeService
	Submission *service.SubmissionService
	Assignment *service.AssignmentService
	Feedback   *service.FeedbackService
	Audit      *service.AuditService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacktypes.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	svcs Services,
	impersonation *service.ImpersonationService,
	taInviteCode string,
	ownerTgID int64,
	logger *zap.Logger,
) *BotController {
	// Менеджер состояний диалогов
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(handlers.Deps{
		UserService:       svcs.User,
		BookingService:    svcs.Booking,
		SlotService:       svcs.Slot,
		TAService:         svcs.TA,
		MaterialService:   svcs.Material,
		CourseService:     svcs.Course,
		GradeService:      svcs.Grade,
		SubmissionService: svcs.Submission,
		AssignmentService: svcs.Assignment,
		FeedbackService:   svcs.Feedback,
		AuditService:      svcs.Audit,
		Impersonation:     impersonation,
		StateManager:      stateManager,
		TAInviteCode:      taInviteCode,
		OwnerTgID:         ownerTgID,
		Logger:            logger,
	})

	callbackHandler := &callbacktypes.Handler{
		UserService:       svcs.User,
		BookingService:    svcs.Booking,
		SlotService:       svcs.Slot,
		TAService:         svcs.TA,
		MaterialService:   svcs.Material,
		CourseService:     svcs.Course,
		GradeService:      svcs.Grade,
		SubmissionService: svcs.Submission,
		AssignmentService: svcs.Assignment,
		FeedbackService:   svcs.Feedback,
		AuditService:      svcs.Audit,
		Impersonation:     impersonation,
		StateManager:      stateAdapter{stateManager},
		Logger:            logger,
	}

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// stateAdapter приводит state.Manager к callbacktypes.StateManager
type stateAdapter struct {
	sm *state.Manager
}

func (a stateAdapter) GetState(telegramID int64) callbacktypes.UserState {
	return callbacktypes.UserState(a.sm.GetState(telegramID))
}

func (a stateAdapter) SetState(telegramID int64, st callbacktypes.UserState) {
	a.sm.SetState(telegramID, state.UserState(st))
}

func (a stateAdapter) GetData(telegramID int64, key string) (interface{}, bool) {
	return a.sm.GetData(telegramID, key)
}

func (a stateAdapter) SetData(telegramID int64, key string, value interface{}) {
	a.sm.SetData(telegramID, key, value)
}

func (a stateAdapter) GetString(telegramID int64, key string) string {
	return a.sm.GetString(telegramID, key)
}

func (a stateAdapter) GetInt(telegramID int64, key string) int {
	return a.sm.GetInt(telegramID, key)
}

func (a stateAdapter) ClearState(telegramID int64) {
	a.sm.ClearState(telegramID)
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Общие команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/register", bot.MatchTypeExact, c.handlers.HandleRegister)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/grades", bot.MatchTypeExact, c.handlers.HandleGrades)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/materials", bot.MatchTypeExact, c.handlers.HandleMaterials)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/submit", bot.MatchTypeExact, c.handlers.HandleSubmit)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/feedback", bot.MatchTypeExact, c.handlers.HandleFeedback)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/becometa", bot.MatchTypeExact, c.handlers.HandleBecomeTA)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancelDialog)

	// Команды преподавателей
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myslots", bot.MatchTypeExact, c.handlers.HandleMySlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/createwindow", bot.MatchTypeExact, c.handlers.HandleCreateWindow)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/createslot", bot.MatchTypeExact, c.handlers.HandleCreateSlot)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setgrade", bot.MatchTypeExact, c.handlers.HandleSetGrade)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/uploadmaterial", bot.MatchTypeExact, c.handlers.HandleUploadMaterial)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mathistory", bot.MatchTypePrefix, c.handlers.HandleMaterialHistory)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delmaterial", bot.MatchTypePrefix, c.handlers.HandleDeleteMaterial)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/prefs", bot.MatchTypeExact, c.handlers.HandlePrefs)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setlink", bot.MatchTypeExact, c.handlers.HandleSetLink)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setlocation", bot.MatchTypeExact, c.handlers.HandleSetLocation)

	// Команды владельца
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/requests", bot.MatchTypeExact, c.handlers.HandleRequests)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setrole", bot.MatchTypePrefix, c.handlers.HandleSetRole)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/assignta", bot.MatchTypePrefix, c.handlers.HandleAssignTA)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/impersonate", bot.MatchTypePrefix, c.handlers.HandleImpersonate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stopimpersonate", bot.MatchTypeExact, c.handlers.HandleStopImpersonate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/importweeks", bot.MatchTypeExact, c.handlers.HandleImportWeeks)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addtask", bot.MatchTypeExact, c.handlers.HandleAddTask)

	// Текстовые сообщения диалогов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Файлы, присланные документом
	c.bot.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil && update.Message.Document != nil
	}, c.handlers.HandleDocument)

	// Нажатия inline кнопок
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// HandleCallbackQuery передаёт callback в роутер
func (c *BotController) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	callbacks.Route(ctx, b, update.CallbackQuery, c.callbackHandler)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "register", Description: "📧 Регистрация по почте"},
		{Command: "book", Description: "📝 Записаться на сдачу"},
		{Command: "mybookings", Description: "📅 Мои записи"},
		{Command: "grades", Description: "📊 Мои оценки"},
		{Command: "week", Description: "📚 Текущие недели"},
		{Command: "materials", Description: "📄 Материалы курса"},
		{Command: "submit", Description: "📎 Сдать решение"},
		{Command: "feedback", Description: "💬 Оставить отзыв"},
		{Command: "cancel", Description: "✋ Прервать диалог"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
