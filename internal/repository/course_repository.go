package repository

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/storage"
)

// WeekRepository — каталог учебных недель.
type WeekRepository struct {
	table *storage.Table[model.Week]
}

func NewWeekRepository(dataDir string) (*WeekRepository, error) {
	table, err := storage.NewTable[model.Week](filepath.Join(dataDir, "weeks.csv"))
	if err != nil {
		return nil, fmt.Errorf("weeks table: %w", err)
	}
	return &WeekRepository{table: table}, nil
}

// ListAll возвращает недели по возрастанию номера.
func (r *WeekRepository) ListAll() ([]model.Week, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Number < rows[j].Number })
	return rows, nil
}

// Get возвращает неделю по номеру, nil если не найдена.
func (r *WeekRepository) Get(number int) (*model.Week, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Number == number {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// ReplaceAll перезаписывает каталог недель (импорт из выгрузки).
func (r *WeekRepository) ReplaceAll(weeks []model.Week) error {
	return r.table.WriteAll(weeks)
}

// TaskRepository — задания недель.
type TaskRepository struct {
	table *storage.Table[model.Task]
}

func NewTaskRepository(dataDir string) (*TaskRepository, error) {
	table, err := storage.NewTable[model.Task](filepath.Join(dataDir, "tasks.csv"))
	if err != nil {
		return nil, fmt.Errorf("tasks table: %w", err)
	}
	return &TaskRepository{table: table}, nil
}

// Insert дописывает задание.
func (r *TaskRepository) Insert(t model.Task) error {
	return r.table.Append(t)
}

// Get возвращает задание по id, nil если не найдено.
func (r *TaskRepository) Get(id string) (*model.Task, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// ListAll возвращает задания, отсортированные по неделе и дедлайну.
func (r *TaskRepository) ListAll() ([]model.Task, error) {
	rows, err := r.table.ReadAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Week != rows[j].Week {
			return rows[i].Week < rows[j].Week
		}
		return rows[i].DeadlineISO < rows[j].DeadlineISO
	})
	return rows, nil
}

// ListForWeek возвращает задания недели.
func (r *TaskRepository) ListForWeek(week int) ([]model.Task, error) {
	rows, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	var out []model.Task
	for _, t := range rows {
		if t.Week == week {
			out = append(out, t)
		}
	}
	return out, nil
}
