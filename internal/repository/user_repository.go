package repository

import (
	"fmt"
	"path/filepath"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

type UserRepository struct {
	table *storage.Table[model.User]
}

func NewUserRepository(dataDir string) (*UserRepository, error) {
	table, err := storage.NewTable[model.User](filepath.Join(dataDir, "users.csv"))
	if err != nil {
		return nil, fmt.Errorf("users table: %w", err)
	}
	return &UserRepository{table: table}, nil
}

// GetByTgID возвращает пользователя по telegram id, nil если не найден.
func (r *UserRepository) GetByTgID(tgID int64) (*model.User, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].TgID == tgID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// GetByCode возвращает пользователя по внутреннему коду (student_code/ta_id).
func (r *UserRepository) GetByCode(code string) (*model.User, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Code == code {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// ListByRole возвращает всех пользователей с ролью.
func (r *UserRepository) ListByRole(role model.Role) ([]model.User, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []model.User
	for _, u := range rows {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// Upsert вставляет или заменяет пользователя по tg_id.
func (r *UserRepository) Upsert(user model.User) error {
	return r.table.Update(func(rows []model.User) ([]model.User, error) {
		for i := range rows {
			if rows[i].TgID == user.TgID {
				rows[i] = user
				return rows, nil
			}
		}
		return append(rows, user), nil
	})
}

// CodeTakenByOther проверяет, привязан ли код к другому tg_id.
func (r *UserRepository) CodeTakenByOther(code string, tgID int64) (bool, error) {
	if code == "" {
		return false, nil
	}
	u, err := r.GetByCode(code)
	if err != nil {
		return false, err
	}
	return u != nil && u.TgID != tgID, nil
}
