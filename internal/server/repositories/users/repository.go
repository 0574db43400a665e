// Package users contains the store adapters for user documents.
package users

import (
	"context"

	"github.com/dmitrijs2005/propkeeper/internal/server/models"
)

// Repository is the store contract used by the service layer. Lookups by id
// return common.ErrorNotFound when nothing matches and common.ErrInvalidID
// when id is not an object identifier.
type Repository interface {
	List(ctx context.Context) ([]*models.User, error)
	// Create stores user under a new identifier and returns that identifier.
	Create(ctx context.Context, user *models.User) (string, error)
	Get(ctx context.Context, id string) (*models.User, error)
	// FindByPropertyID returns the first user whose property list contains a
	// property with the given id_proper.
	FindByPropertyID(ctx context.Context, propertyID string) (*models.User, error)
	// Update overwrites only the fields set in upd.
	Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.UpdateResult, error)
	// SetProperties replaces the whole property list.
	SetProperties(ctx context.Context, id string, props []models.Property) (*models.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

func cloneProperties(props []models.Property) []models.Property {
	out := make([]models.Property, len(props))
	copy(out, props)
	return out
}
