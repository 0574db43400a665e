package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/server/models"
	usersrepo "github.com/dmitrijs2005/propkeeper/internal/server/repositories/users"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func newService(t *testing.T) (*UserService, *usersrepo.InMemoryRepository) {
	t.Helper()
	repo := usersrepo.NewInMemoryRepository()
	return NewUserService(repo, nopLogger{}), repo
}

func ptr(s string) *string { return &s }

func prop(id string) models.Property {
	return models.Property{ID: id, PropertyType: "house", Description: id + " description"}
}

func mustCreate(t *testing.T, s *UserService, props ...models.Property) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &models.User{FullName: "Alice", Email: "a@x.com", Properties: props})
	require.NoError(t, err)
	return u
}

func TestListUsers_EmptyStore(t *testing.T) {
	s, _ := newService(t)

	list, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCreateThenGet(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	created := mustCreate(t, s, prop("p1"))
	require.True(t, models.IsValidID(created.ID))

	got, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.User{
		ID:         created.ID,
		FullName:   "Alice",
		Email:      "a@x.com",
		Properties: []models.Property{prop("p1")},
	}, got)

	list, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetUser_Errors(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, "not-an-id")
	assert.ErrorIs(t, err, common.ErrInvalidID)

	_, err = s.GetUser(ctx, models.NewID())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetUserProperties(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	empty := mustCreate(t, s)
	props, err := s.GetUserProperties(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, props)
	assert.Empty(t, props)

	full := mustCreate(t, s, prop("p1"))
	props, err = s.GetUserProperties(ctx, full.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Property{prop("p1")}, props)

	_, err = s.GetUserProperties(ctx, models.NewID())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAddProperty_AppendsInOrder(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	u := mustCreate(t, s)

	got, err := s.AddProperty(ctx, u.ID, prop("p1"))
	require.NoError(t, err)
	assert.Equal(t, []models.Property{prop("p1")}, got.Properties)

	got, err = s.AddProperty(ctx, u.ID, prop("p2"))
	require.NoError(t, err)
	assert.Equal(t, []models.Property{prop("p1"), prop("p2")}, got.Properties)

	_, err = s.AddProperty(ctx, models.NewID(), prop("p3"))
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateUser(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	u := mustCreate(t, s, prop("p1"))

	res, err := s.UpdateUser(ctx, u.ID, &models.UserUpdate{Email: ptr("new@x.com")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)

	got, _ := s.GetUser(ctx, u.ID)
	assert.Equal(t, "Alice", got.FullName, "absent field unchanged")
	assert.Equal(t, "new@x.com", got.Email)
	assert.Equal(t, []models.Property{prop("p1")}, got.Properties)

	_, err = s.UpdateUser(ctx, models.NewID(), &models.UserUpdate{FullName: ptr("x")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateUser_EmptyPayloadLeavesStoreUntouched(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	u := mustCreate(t, s)

	_, err := s.UpdateUser(ctx, u.ID, &models.UserUpdate{})
	assert.ErrorIs(t, err, common.ErrEmptyUpdate)

	got, _ := s.GetUser(ctx, u.ID)
	assert.Equal(t, u, got)
}

func TestUpdatePropertyOwner(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	other := mustCreate(t, s, prop("p0"))
	owner := mustCreate(t, s, prop("p1"))

	_, err := s.UpdatePropertyOwner(ctx, "p1", &models.OwnerUpdate{FullName: ptr("Bob"), Email: ptr("b@x.com")})
	require.NoError(t, err)

	got, _ := s.GetUser(ctx, owner.ID)
	assert.Equal(t, "Bob", got.FullName)
	assert.Equal(t, "b@x.com", got.Email)

	untouched, _ := s.GetUser(ctx, other.ID)
	assert.Equal(t, "Alice", untouched.FullName)

	_, err = s.UpdatePropertyOwner(ctx, "p1", &models.OwnerUpdate{})
	assert.ErrorIs(t, err, common.ErrEmptyUpdate)

	_, err = s.UpdatePropertyOwner(ctx, "ghost", &models.OwnerUpdate{FullName: ptr("x")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdatePropertyData_ReplacesOnlyMatch(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	u := mustCreate(t, s, prop("p1"), prop("p2"), prop("p3"))

	repl := models.Property{ID: "p2", PropertyType: "boat", Description: "new"}
	_, err := s.UpdatePropertyData(ctx, "p2", repl)
	require.NoError(t, err)

	got, _ := s.GetUser(ctx, u.ID)
	assert.Equal(t, []models.Property{prop("p1"), repl, prop("p3")}, got.Properties)

	_, err = s.UpdatePropertyData(ctx, "p2", models.Property{})
	assert.ErrorIs(t, err, common.ErrEmptyUpdate)

	_, err = s.UpdatePropertyData(ctx, "P2", repl)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteProperty(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	single := mustCreate(t, s, prop("only"))
	multi := mustCreate(t, s, prop("a"), prop("b"), prop("c"))

	require.NoError(t, s.DeleteProperty(ctx, "only"))
	props, _ := s.GetUserProperties(ctx, single.ID)
	assert.Empty(t, props)

	require.NoError(t, s.DeleteProperty(ctx, "b"))
	props, _ = s.GetUserProperties(ctx, multi.ID)
	assert.Equal(t, []models.Property{prop("a"), prop("c")}, props)

	assert.ErrorIs(t, s.DeleteProperty(ctx, "b"), common.ErrorNotFound)
}

func TestUppercaseIDResolvesToStoredUser(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	u := mustCreate(t, s)
	upper := strings.ToUpper(u.ID)

	got, err := s.GetUser(ctx, upper)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	props, err := s.GetUserProperties(ctx, upper)
	require.NoError(t, err)
	assert.Empty(t, props)

	withProp, err := s.AddProperty(ctx, upper, prop("p1"))
	require.NoError(t, err)
	assert.Equal(t, []models.Property{prop("p1")}, withProp.Properties)

	res, err := s.UpdateUser(ctx, upper, &models.UserUpdate{FullName: ptr("Bob")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Matched)

	require.NoError(t, s.DeleteUser(ctx, upper))
	_, err = s.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteUser(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	u := mustCreate(t, s)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), common.ErrorNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, "zzz"), common.ErrInvalidID)
}

// staleRepo returns an owner whose list no longer holds the property, as
// happens when a concurrent writer removed it between the two round trips.
type staleRepo struct {
	usersrepo.Repository
	owner   *models.User
	setCall int
}

func (r *staleRepo) FindByPropertyID(ctx context.Context, propertyID string) (*models.User, error) {
	return r.owner, nil
}

func (r *staleRepo) SetProperties(ctx context.Context, id string, props []models.Property) (*models.UpdateResult, error) {
	r.setCall++
	return &models.UpdateResult{Matched: 1, Modified: 1}, nil
}

func TestPropertyScan_NoIndexZeroFallback(t *testing.T) {
	repo := &staleRepo{owner: &models.User{ID: models.NewID(), Properties: []models.Property{prop("other")}}}
	s := NewUserService(repo, nopLogger{})
	ctx := context.Background()

	_, err := s.UpdatePropertyData(ctx, "p1", prop("p1"))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.DeleteProperty(ctx, "p1"), common.ErrorNotFound)
	assert.Zero(t, repo.setCall, "the wrong property must never be rewritten")
}

type failingRepo struct {
	usersrepo.Repository
	err error
}

func (r *failingRepo) List(ctx context.Context) ([]*models.User, error) { return nil, r.err }
func (r *failingRepo) Create(ctx context.Context, u *models.User) (string, error) {
	return "", r.err
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewUserService(&failingRepo{err: boom}, nopLogger{})

	_, err := s.ListUsers(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = s.CreateUser(context.Background(), &models.User{FullName: "a", Email: "a@x.com"})
	assert.ErrorIs(t, err, boom)
}
