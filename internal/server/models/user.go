// Package models defines the records exchanged between the HTTP layer, the
// service layer and the repositories.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Property is a sub-record owned by exactly one User.
type Property struct {
	ID           string `json:"id_proper" bson:"id_proper" validate:"required"`
	PropertyType string `json:"property_type" bson:"property_type" validate:"required"`
	Description  string `json:"description" bson:"description" validate:"required"`
}

// IsEmpty reports whether no field of the property is set.
func (p Property) IsEmpty() bool {
	return p == Property{}
}

// User is a full user record. ID is assigned by the store and never changes.
type User struct {
	ID         string     `json:"id"`
	FullName   string     `json:"fullname" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Properties []Property `json:"properties" validate:"dive"`
}

// UserUpdate is a partial user update. Nil fields are left unchanged; a
// non-nil empty Properties clears the list.
type UserUpdate struct {
	FullName   *string    `json:"fullname" validate:"omitempty"`
	Email      *string    `json:"email" validate:"omitempty,email"`
	Properties []Property `json:"properties" validate:"omitempty,dive"`
}

func (u UserUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil && u.Properties == nil
}

// OwnerUpdate changes the contact fields of the user owning a property.
type OwnerUpdate struct {
	FullName *string `json:"fullname" validate:"omitempty"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func (u OwnerUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil
}

// UserUpdate converts the owner fields into a partial user update.
func (u OwnerUpdate) UserUpdate() *UserUpdate {
	return &UserUpdate{FullName: u.FullName, Email: u.Email}
}

// UpdateResult acknowledges a write: how many records matched the filter and
// how many were actually changed.
type UpdateResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// NoProperties is returned in place of an empty property list.
type NoProperties struct {
	Message string `json:"message"`
}

// NoPropertiesMessage is the body rendered for a user without properties.
var NoPropertiesMessage = NoProperties{Message: "no properties"}

// NewID returns a fresh store identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id is a 24 hex character object identifier.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NormalizeID returns the lowercase hex form stores keep ids in.
// The second result is false if id is not a valid object identifier.
func NormalizeID(id string) (string, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", false
	}
	return oid.Hex(), true
}
