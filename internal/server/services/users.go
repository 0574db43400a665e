// Package services implements the user and property operations on top of a
// users.Repository.
//
// Property-scoped operations are read-modify-write sequences made of several
// independent store round trips. They are not atomic: concurrent writers to
// the same user's property list race and the last write wins.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/server/models"
	"github.com/dmitrijs2005/propkeeper/internal/server/repositories/users"
)

type UserService struct {
	repo   users.Repository
	logger logging.Logger
}

func NewUserService(repo users.Repository, l logging.Logger) *UserService {
	return &UserService{repo: repo, logger: l.With("module", "user_service")}
}

// ListUsers returns every stored user. An empty store yields an empty slice.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	if list == nil {
		list = []*models.User{}
	}
	return list, nil
}

// CreateUser stores a new user and returns it as read back from the store.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error reading created user: %w", err)
	}

	s.logger.Info(ctx, "user created", "id", id)
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	id, ok := models.NormalizeID(id)
	if !ok {
		return nil, common.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

// GetUserProperties returns the user's property list. A user without
// properties yields an empty, non-nil slice.
func (s *UserService) GetUserProperties(ctx context.Context, id string) ([]models.Property, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Properties == nil {
		return []models.Property{}, nil
	}
	return user.Properties, nil
}

// AddProperty appends p to the user's property list and returns the updated user.
func (s *UserService) AddProperty(ctx context.Context, id string, p models.Property) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	props := append(user.Properties, p)
	if _, err := s.repo.SetProperties(ctx, user.ID, props); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "property added", "user_id", user.ID, "property_id", p.ID)
	return s.repo.Get(ctx, user.ID)
}

// UpdateUser applies the fields present in upd. An empty update is rejected
// before the store is touched.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd *models.UserUpdate) (*models.UpdateResult, error) {
	if upd == nil || upd.IsEmpty() {
		return nil, common.ErrEmptyUpdate
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, user.ID, upd)
}

// UpdatePropertyOwner overwrites the contact fields of the user owning the
// property propertyID.
func (s *UserService) UpdatePropertyOwner(ctx context.Context, propertyID string, upd *models.OwnerUpdate) (*models.UpdateResult, error) {
	if upd == nil || upd.IsEmpty() {
		return nil, common.ErrEmptyUpdate
	}

	owner, err := s.repo.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, owner.ID, upd.UserUpdate())
}

// UpdatePropertyData replaces the property propertyID wholesale with p.
func (s *UserService) UpdatePropertyData(ctx context.Context, propertyID string, p models.Property) (*models.UpdateResult, error) {
	if p.IsEmpty() {
		return nil, common.ErrEmptyUpdate
	}

	owner, idx, err := s.locateProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	owner.Properties[idx] = p
	return s.repo.SetProperties(ctx, owner.ID, owner.Properties)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	id, ok := models.NormalizeID(id)
	if !ok {
		return common.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "id", id)
	return nil
}

// DeleteProperty removes the property propertyID from its owner's list.
// Removing the last property leaves an empty list.
func (s *UserService) DeleteProperty(ctx context.Context, propertyID string) error {
	owner, idx, err := s.locateProperty(ctx, propertyID)
	if err != nil {
		return err
	}

	props := append(owner.Properties[:idx:idx], owner.Properties[idx+1:]...)
	if _, err := s.repo.SetProperties(ctx, owner.ID, props); err != nil {
		return err
	}

	s.logger.Info(ctx, "property deleted", "user_id", owner.ID, "property_id", propertyID)
	return nil
}

// locateProperty finds the owner of propertyID and the index of the property
// in the owner's list. The owner may have been changed between the lookup
// and the scan, so a missing entry is reported as not found rather than
// guessed.
func (s *UserService) locateProperty(ctx context.Context, propertyID string) (*models.User, int, error) {
	owner, err := s.repo.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, 0, err
	}

	idx := indexOfProperty(owner.Properties, propertyID)
	if idx < 0 {
		s.logger.Warn(ctx, "property vanished from owner", "user_id", owner.ID, "property_id", propertyID)
		return nil, 0, fmt.Errorf("property %q: %w", propertyID, common.ErrorNotFound)
	}

	return owner, idx, nil
}

func indexOfProperty(props []models.Property, id string) int {
	for i, p := range props {
		if p.ID == id {
			return i
		}
	}
	return -1
}
