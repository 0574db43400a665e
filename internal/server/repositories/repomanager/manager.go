// Package repomanager builds the users repository selected by configuration
// and owns the lifetime of its store connection.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/server/config"
	"github.com/dmitrijs2005/propkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	// Close releases the store connection.
	Close(ctx context.Context) error
}

// NewRepositoryManager connects to the backend named by cfg.Storage.
func NewRepositoryManager(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.Storage {
	case config.StorageMongo:
		return NewMongoRepositoryManager(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case config.StoragePostgres:
		return NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	case config.StorageMemory:
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
