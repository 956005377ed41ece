package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalDisk сохраняет файлы на локальный диск под общим корнем.
type LocalDisk struct {
	root string
}

func NewLocalDisk(root string) (*LocalDisk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalDisk{root: root}, nil
}

// SaveBytes пишет файл и возвращает полный локальный путь.
func (s *LocalDisk) SaveBytes(_ context.Context, path string, content []byte) (string, error) {
	full := filepath.Join(s.root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return full, nil
}

// ReadBytes читает файл по ссылке, выданной SaveBytes.
func (s *LocalDisk) ReadBytes(_ context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}
