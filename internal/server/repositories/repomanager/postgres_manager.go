package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/propkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/propkeeper/internal/server/repositories/users"
)

// PostgresRepositoryManager owns the *sql.DB pool (pgx driver) and runs the
// embedded goose migrations on startup.
type PostgresRepositoryManager struct {
	db    *sql.DB
	users *users.PostgresRepository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewPostgresRepositoryManager opens dsn, checks the connection and migrates
// the schema.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m, err := newPostgresRepositoryManager(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func newPostgresRepositoryManager(ctx context.Context, db *sql.DB) (*PostgresRepositoryManager, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := &PostgresRepositoryManager{db: db, users: users.NewPostgresRepository(db)}
	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return m, nil
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Close(ctx context.Context) error {
	return m.db.Close()
}
