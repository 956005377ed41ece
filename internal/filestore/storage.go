package filestore

import (
	"context"
	"fmt"
)

// Storage — хранилище загруженных файлов (сдачи, материалы).
// SaveBytes возвращает ссылку, по которой файл можно прочитать обратно.
type Storage interface {
	SaveBytes(ctx context.Context, path string, content []byte) (string, error)
	ReadBytes(ctx context.Context, ref string) ([]byte, error)
}

// Build выбирает реализацию по STORAGE_KIND из конфига.
func Build(kind, dataDir, remoteToken string) (Storage, error) {
	switch kind {
	case "local":
		return NewLocalDisk(dataDir + "/storage")
	case "remote":
		return NewRemoteDiskStub(remoteToken), nil
	default:
		return nil, fmt.Errorf("unknown storage kind: %q", kind)
	}
}
