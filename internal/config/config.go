package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken        string
	OwnerTgID       int64
	DataDir         string
	StorageKind     string
	RemoteDiskToken string
	TAInviteCode    string
	Week1Deadline   time.Time
	Environment     string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env (отсутствие файла — не ошибка)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		BotToken:        strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		OwnerTgID:       readOwnerTgID(),
		DataDir:         os.Getenv("DATA_DIR"),
		StorageKind:     strings.ToLower(os.Getenv("STORAGE_KIND")),
		RemoteDiskToken: os.Getenv("REMOTE_DISK_TOKEN"),
		TAInviteCode:    os.Getenv("TA_INVITE_CODE"),
		Environment:     os.Getenv("ENV"),
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.StorageKind == "" {
		cfg.StorageKind = "local"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	deadline, err := readWeek1Deadline()
	if err != nil {
		return nil, err
	}
	cfg.Week1Deadline = deadline

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required but not set")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return cfg, nil
}

// readOwnerTgID терпимо разбирает id владельца: пробелы, случайные
// кавычки и комментарии вида "123 # me" не ломают запуск.
func readOwnerTgID() int64 {
	for _, key := range []string{"OWNER_TG_ID", "OWNER_ID", "ADMIN_TG_ID"} {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		s := strings.Trim(strings.TrimSpace(raw), `'"`)
		if i := strings.IndexAny(s, " \t#"); i >= 0 {
			s = s[:i]
		}
		if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return 0
}

// readWeek1Deadline читает якорную дату дедлайна первой недели.
func readWeek1Deadline() (time.Time, error) {
	raw := strings.TrimSpace(os.Getenv("WEEK1_DEADLINE"))
	if raw == "" {
		// дефолт текущего семестра
		return time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse WEEK1_DEADLINE: %w", err)
	}
	return t, nil
}
