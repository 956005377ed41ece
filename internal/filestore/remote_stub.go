package filestore

import (
	"context"
	"fmt"
)

// RemoteDiskStub — заглушка удалённого диска: логики загрузки нет,
// ссылка формируется детерминированно. Реальная реализация пойдёт
// через REST API облачного диска.
type RemoteDiskStub struct {
	token string
}

func NewRemoteDiskStub(token string) *RemoteDiskStub {
	return &RemoteDiskStub{token: token}
}

func (s *RemoteDiskStub) SaveBytes(_ context.Context, path string, _ []byte) (string, error) {
	return "remote://" + path, nil
}

func (s *RemoteDiskStub) ReadBytes(_ context.Context, ref string) ([]byte, error) {
	return nil, fmt.Errorf("remote disk stub cannot read %s", ref)
}
