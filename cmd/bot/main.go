package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/antonzhd/course_admin_bot/internal/app"
	"github.com/antonzhd/course_admin_bot/internal/config"
	"github.com/antonzhd/course_admin_bot/internal/controller"
	"github.com/antonzhd/course_admin_bot/internal/filestore"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"github.com/antonzhd/course_admin_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting course admin bot",
		zap.String("env", cfg.Environment),
		zap.String("data_dir", cfg.DataDir),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Репозитории поверх таблиц в каталоге данных
	userRepo, err := repository.NewUserRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init user repository", zap.Error(err))
	}
	rosterRepo, err := repository.NewRosterRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init roster repository", zap.Error(err))
	}
	rosterTARepo, err := repository.NewRosterTARepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init roster TA repository", zap.Error(err))
	}
	slotRepo, err := repository.NewSlotRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init slot repository", zap.Error(err))
	}
	bookingRepo, err := repository.NewBookingRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init booking repository", zap.Error(err))
	}
	materialRepo, err := repository.NewMaterialRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init material repository", zap.Error(err))
	}
	weekRepo, err := repository.NewWeekRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init week repository", zap.Error(err))
	}
	taskRepo, err := repository.NewTaskRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init task repository", zap.Error(err))
	}
	gradeRepo, err := repository.NewGradeRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init grade repository", zap.Error(err))
	}
	submissionRepo, err := repository.NewSubmissionRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init submission repository", zap.Error(err))
	}
	assignmentRepo, err := repository.NewAssignmentRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init assignment repository", zap.Error(err))
	}
	requestRepo, err := repository.NewTARequestRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init TA request repository", zap.Error(err))
	}
	prefsRepo, err := repository.NewTAPrefsRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init TA prefs repository", zap.Error(err))
	}
	auditRepo, err := repository.NewAuditRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init audit repository", zap.Error(err))
	}
	feedbackRepo, err := repository.NewFeedbackRepository(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to init feedback repository", zap.Error(err))
	}

	// Файловое хранилище материалов и сдач
	fileStorage, err := filestore.Build(cfg.StorageKind, cfg.DataDir, cfg.RemoteDiskToken)
	if err != nil {
		logger.Fatal("Failed to init file storage", zap.Error(err))
	}

	// Сервисы
	auditService := service.NewAuditService(auditRepo, logger)
	userService := service.NewUserService(userRepo, rosterRepo, rosterTARepo, logger)
	slotService := service.NewSlotService(slotRepo, logger)
	bookingService := service.NewBookingService(slotRepo, bookingRepo, logger)
	taService := service.NewTAService(requestRepo, prefsRepo, userService, auditService, logger)
	materialService := service.NewMaterialService(materialRepo, fileStorage, auditService, logger)
	courseService := service.NewCourseService(weekRepo, taskRepo, cfg.Week1Deadline, logger)
	gradeService := service.NewGradeService(gradeRepo, auditService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, fileStorage, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, auditService, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, logger)
	impersonation := service.NewImpersonationService(auditService, logger)

	if cfg.OwnerTgID != 0 {
		if err := userService.EnsureOwner(cfg.OwnerTgID); err != nil {
			logger.Fatal("Failed to ensure owner", zap.Error(err))
		}
	} else {
		logger.Warn("OWNER_TG_ID is not set, administrative commands will be unavailable")
	}

	b, err := bot.New(cfg.BotToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		b,
		controller.Services{
			User:       userService,
			Booking:    bookingService,
			Slot:       slotService,
			TA:         taService,
			Material:   materialService,
			Course:     courseService,
			Grade:      gradeService,
			Submission: submissionService,
			Assignment: assignmentService,
			Feedback:   feedbackService,
			Audit:      auditService,
		},
		impersonation,
		cfg.TAInviteCode,
		cfg.OwnerTgID,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Error("Failed to set bot commands", zap.Error(err))
	}

	scheduler := app.NewScheduler(b, bookingService, userService, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Bot is running")
	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
