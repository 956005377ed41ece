package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/gofrs/flock"
)

// Table — таблица сущностей T поверх одного CSV-файла.
// Каждая мутация — это цикл read-modify-write под эксклюзивной
// advisory-блокировкой файла (сайдкар <path>.lock); sync.Mutex
// сериализует конкурентные горутины внутри процесса.
type Table[T any] struct {
	path string
	fl   *flock.Flock
	mu   sync.Mutex
}

// NewTable создаёт таблицу по пути к CSV-файлу. Файл появляется
// при первой записи; отсутствующий файл читается как пустая таблица.
func NewTable[T any](path string) (*Table[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create table dir: %w", err)
	}
	return &Table[T]{
		path: path,
		fl:   flock.New(path + ".lock"),
	}, nil
}

// Path возвращает путь к файлу таблицы.
func (t *Table[T]) Path() string {
	return t.path
}

func (t *Table[T]) lock() error {
	t.mu.Lock()
	if err := t.fl.Lock(); err != nil {
		t.mu.Unlock()
		return fmt.Errorf("lock table %s: %w", filepath.Base(t.path), err)
	}
	return nil
}

func (t *Table[T]) unlock() {
	_ = t.fl.Unlock()
	t.mu.Unlock()
}

func (t *Table[T]) readLocked() ([]T, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open table %s: %w", filepath.Base(t.path), err)
	}
	defer f.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read table %s: %w", filepath.Base(t.path), err)
	}
	return rows, nil
}

func (t *Table[T]) writeLocked(rows []T) error {
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("create table %s: %w", filepath.Base(t.path), err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write table %s: %w", filepath.Base(t.path), err)
	}
	return nil
}

// ReadAll возвращает снимок таблицы. Блокировка держится только
// на время чтения и отпускается до любых вычислений над снимком.
func (t *Table[T]) ReadAll() ([]T, error) {
	if err := t.lock(); err != nil {
		return nil, err
	}
	defer t.unlock()
	return t.readLocked()
}

// WriteAll полностью заменяет содержимое таблицы.
func (t *Table[T]) WriteAll(rows []T) error {
	if err := t.lock(); err != nil {
		return err
	}
	defer t.unlock()
	return t.writeLocked(rows)
}

// Append дописывает одну строку.
func (t *Table[T]) Append(row T) error {
	return t.Update(func(rows []T) ([]T, error) {
		return append(rows, row), nil
	})
}

// Update — транзакционная граница таблицы: блокировка держится на
// весь цикл чтение → fn → запись. Ошибка из fn отменяет запись;
// внутри fn не должно быть никакого внешнего I/O.
func (t *Table[T]) Update(fn func(rows []T) ([]T, error)) error {
	if err := t.lock(); err != nil {
		return err
	}
	defer t.unlock()

	rows, err := t.readLocked()
	if err != nil {
		return err
	}
	updated, err := fn(rows)
	if err != nil {
		return err
	}
	return t.writeLocked(updated)
}
