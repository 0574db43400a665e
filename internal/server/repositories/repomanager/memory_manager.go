package repomanager

import (
	"context"

	"github.com/dmitrijs2005/propkeeper/internal/server/repositories/users"
)

type InMemoryRepositoryManager struct {
	users *users.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Close(ctx context.Context) error {
	return nil
}
