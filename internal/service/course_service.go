package service

import (
	"fmt"
	"time"

	"github.com/antonzhd/course_admin_bot/internal/model"
	"github.com/antonzhd/course_admin_bot/internal/repository"
	"go.uber.org/zap"
)

// WeekInfo — неделя с вычисленным дедлайном. Дедлайн первой недели —
// якорная дата курса, каждая следующая неделя +7 дней.
type WeekInfo struct {
	Week     model.Week
	Deadline time.Time
	Overdue  bool
}

// CourseService — каталог недель и заданий курса.
type CourseService struct {
	weekRepo      *repository.WeekRepository
	taskRepo      *repository.TaskRepository
	week1Deadline time.Time
	logger        *zap.Logger
}

func NewCourseService(
	weekRepo *repository.WeekRepository,
	taskRepo *repository.TaskRepository,
	week1Deadline time.Time,
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		weekRepo:      weekRepo,
		taskRepo:      taskRepo,
		week1Deadline: week1Deadline,
		logger:        logger,
	}
}

// Deadline вычисляет дедлайн недели от якорной даты.
func (s *CourseService) Deadline(weekNumber int) time.Time {
	return s.week1Deadline.AddDate(0, 0, (weekNumber-1)*7)
}

// ListWeeks возвращает все недели с дедлайнами.
func (s *CourseService) ListWeeks() ([]WeekInfo, error) {
	weeks, err := s.weekRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	return s.enrich(weeks), nil
}

// CurrentWeeks возвращает до трёх ближайших непросроченных недель.
func (s *CourseService) CurrentWeeks() ([]WeekInfo, error) {
	all, err := s.ListWeeks()
	if err != nil {
		return nil, err
	}
	var out []WeekInfo
	for _, w := range all {
		if w.Overdue {
			continue
		}
		out = append(out, w)
		if len(out) == 3 {
			break
		}
	}
	return out, nil
}

// GetWeek возвращает неделю с дедлайном, nil если не найдена.
func (s *CourseService) GetWeek(number int) (*WeekInfo, error) {
	w, err := s.weekRepo.Get(number)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}
	info := s.enrich([]model.Week{*w})
	return &info[0], nil
}

// ImportWeeks заменяет каталог недель выгрузкой.
func (s *CourseService) ImportWeeks(weeks []model.Week) error {
	if err := s.weekRepo.ReplaceAll(weeks); err != nil {
		return fmt.Errorf("import weeks: %w", err)
	}
	s.logger.Info("Weeks imported", zap.Int("count", len(weeks)))
	return nil
}

// AddTask создаёт задание недели.
func (s *CourseService) AddTask(week int, title, deadlineISO string, maxPoints float64, description string) (*model.Task, error) {
	task := model.Task{
		ID:          model.NewID("tsk"),
		Week:        week,
		Title:       title,
		DeadlineISO: deadlineISO,
		MaxPoints:   maxPoints,
		Description: description,
	}
	if err := s.taskRepo.Insert(task); err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	return &task, nil
}

// ListTasks возвращает все задания.
func (s *CourseService) ListTasks() ([]model.Task, error) {
	return s.taskRepo.ListAll()
}

// ListTasksForWeek возвращает задания недели.
func (s *CourseService) ListTasksForWeek(week int) ([]model.Task, error) {
	return s.taskRepo.ListForWeek(week)
}

// GetTask возвращает задание по id, nil если нет.
func (s *CourseService) GetTask(taskID string) (*model.Task, error) {
	return s.taskRepo.Get(taskID)
}

func (s *CourseService) enrich(weeks []model.Week) []WeekInfo {
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	out := make([]WeekInfo, 0, len(weeks))
	for _, w := range weeks {
		deadline := s.Deadline(w.Number)
		out = append(out, WeekInfo{
			Week:     w,
			Deadline: deadline,
			// просрочено со дня, следующего за дедлайном
			Overdue: today.After(deadline),
		})
	}
	return out
}
