package repomanager

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dmitrijs2005/propkeeper/internal/server/repositories/users"
)

const mongoPingTimeout = 5 * time.Second

// MongoRepositoryManager holds the process-wide MongoDB client.
type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
}

// NewMongoRepositoryManager connects to uri and verifies the connection.
func NewMongoRepositoryManager(ctx context.Context, uri, database, collection string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	return newMongoRepositoryManager(client, database, collection), nil
}

func newMongoRepositoryManager(client *mongo.Client, database, collection string) *MongoRepositoryManager {
	coll := client.Database(database).Collection(collection)
	return &MongoRepositoryManager{client: client, users: users.NewMongoRepository(coll)}
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
