package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/dbx"
	"github.com/dmitrijs2005/propkeeper/internal/server/models"
)

// PostgresRepository stores each user as a row with the property list in a
// JSONB column, so the containment lookup maps onto the @> operator.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, fullname, email, properties FROM users
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (string, error) {
	query :=
		`INSERT INTO users (id, fullname, email, properties)
		 VALUES ($1, $2, $3, $4)
		 `

	props, err := json.Marshal(cloneProperties(user.Properties))
	if err != nil {
		return "", fmt.Errorf("encode properties: %w", err)
	}

	id := models.NewID()
	if _, err := r.db.ExecContext(ctx, query, id, user.FullName, user.Email, string(props)); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.User, error) {
	if !models.IsValidID(id) {
		return nil, common.ErrInvalidID
	}

	query :=
		`SELECT id, fullname, email, properties FROM users
		 WHERE id = $1
		 `

	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) FindByPropertyID(ctx context.Context, propertyID string) (*models.User, error) {
	query :=
		`SELECT id, fullname, email, properties FROM users
		 WHERE properties @> jsonb_build_array(jsonb_build_object('id_proper', $1::text))
		 ORDER BY created_at, id
		 LIMIT 1
		 `

	return r.queryOne(ctx, query, propertyID)
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.UpdateResult, error) {
	if upd == nil || upd.IsEmpty() {
		return nil, common.ErrEmptyUpdate
	}

	query :=
		`UPDATE users SET
		   fullname = COALESCE($2, fullname),
		   email = COALESCE($3, email),
		   properties = COALESCE($4::jsonb, properties)
		 WHERE id = $1
		 `

	var props any
	if upd.Properties != nil {
		b, err := json.Marshal(upd.Properties)
		if err != nil {
			return nil, fmt.Errorf("encode properties: %w", err)
		}
		props = string(b)
	}

	return r.exec(ctx, id, query, id, upd.FullName, upd.Email, props)
}

func (r *PostgresRepository) SetProperties(ctx context.Context, id string, props []models.Property) (*models.UpdateResult, error) {
	query :=
		`UPDATE users SET properties = $2::jsonb
		 WHERE id = $1
		 `

	b, err := json.Marshal(cloneProperties(props))
	if err != nil {
		return nil, fmt.Errorf("encode properties: %w", err)
	}

	return r.exec(ctx, id, query, id, string(b))
}

func (r *PostgresRepository) exec(ctx context.Context, id, query string, args ...any) (*models.UpdateResult, error) {
	if !models.IsValidID(id) {
		return nil, common.ErrInvalidID
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	return &models.UpdateResult{Matched: n, Modified: n}, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	_, err := r.exec(ctx, id, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user  models.User
		props []byte
	)

	if err := row.Scan(&user.ID, &user.FullName, &user.Email, &props); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(props) > 0 {
		if err := json.Unmarshal(props, &user.Properties); err != nil {
			return nil, fmt.Errorf("decode properties: %w", err)
		}
	}
	user.Properties = cloneProperties(user.Properties)

	return &user, nil
}
