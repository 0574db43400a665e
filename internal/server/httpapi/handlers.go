package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/server/models"
)

const (
	errOccurred    = "An error occurred."
	errOccurredAlt = "An error occurred"
	msgInvalidID   = "ID Not Valid."
	msgUserMissing = "User doesn't exist."
	msgRetrieved   = "User data retrieved successfully"
	msgDataUpdated = "User Data updated successfully"
	msgOwnerFailed = "There was an error updating the property owner."
)

func (s *HTTPServer) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to this fantastic app!"})
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	if len(users) == 0 {
		writeSuccess(w, users, "Empty list returned")
		return
	}
	writeSuccess(w, users, msgRetrieved)
}

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !s.decode(w, r, &user) {
		return
	}

	created, err := s.users.CreateUser(r.Context(), &user)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	writeSuccess(w, created, "User added successfully.")
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(w, r)
	if !ok {
		return
	}

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, msgUserMissing)
		return
	}

	writeSuccess(w, user, msgRetrieved)
}

func (s *HTTPServer) getUserProperties(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(w, r)
	if !ok {
		return
	}

	props, err := s.users.GetUserProperties(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, msgUserMissing)
		return
	}

	if len(props) == 0 {
		writeSuccess(w, models.NoPropertiesMessage, msgRetrieved)
		return
	}
	writeSuccess(w, props, msgRetrieved)
}

func (s *HTTPServer) addProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(w, r)
	if !ok {
		return
	}

	var p models.Property
	if !s.decode(w, r, &p) {
		return
	}

	user, err := s.users.AddProperty(r.Context(), id, p)
	if err != nil {
		s.fail(w, r, err, msgOwnerFailed)
		return
	}

	writeSuccess(w, user, "Properties added successfully.")
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(w, r)
	if !ok {
		return
	}

	var upd models.UserUpdate
	if !s.decode(w, r, &upd) {
		return
	}

	if _, err := s.users.UpdateUser(r.Context(), id, &upd); err != nil {
		s.fail(w, r, err, "There was an error updating the user data.")
		return
	}

	writeSuccess(w, fmt.Sprintf("User Data with ID: %s update is successful", id), msgDataUpdated)
}

// Property routes take a client-supplied property id, so the path parameter
// is not checked against the object id format.

func (s *HTTPServer) updatePropertyOwner(w http.ResponseWriter, r *http.Request) {
	propID := mux.Vars(r)["propId"]

	var upd models.OwnerUpdate
	if !s.decode(w, r, &upd) {
		return
	}

	if _, err := s.users.UpdatePropertyOwner(r.Context(), propID, &upd); err != nil {
		s.fail(w, r, err, msgOwnerFailed)
		return
	}

	writeSuccess(w,
		fmt.Sprintf("Owner information with PropertyID: %s update is successful", propID),
		"Owner information updated successfully")
}

func (s *HTTPServer) updatePropertyData(w http.ResponseWriter, r *http.Request) {
	propID := mux.Vars(r)["propId"]

	var p models.Property
	if !s.decode(w, r, &p) {
		return
	}

	if _, err := s.users.UpdatePropertyData(r.Context(), propID, p); err != nil {
		s.fail(w, r, err, "There was an error updating the user data.")
		return
	}

	writeSuccess(w, fmt.Sprintf("User with PropertyID: %s update is successful", propID), msgDataUpdated)
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(w, r)
	if !ok {
		return
	}

	if err := s.users.DeleteUser(r.Context(), id); err != nil {
		s.fail(w, r, err, fmt.Sprintf("User with id %s doesn't exist", id))
		return
	}

	writeSuccess(w, fmt.Sprintf("User with ID: %s removed", id), "User deleted successfully")
}

func (s *HTTPServer) deleteProperty(w http.ResponseWriter, r *http.Request) {
	propID := mux.Vars(r)["propId"]

	if err := s.users.DeleteProperty(r.Context(), propID); err != nil {
		s.fail(w, r, err, fmt.Sprintf("Property with id %s doesn't exist", propID))
		return
	}

	writeSuccess(w, fmt.Sprintf("property with ID: %s removed", propID), "property deleted successfully")
}

// userID extracts {id} and rejects anything that is not an object id without
// calling the service.
func (s *HTTPServer) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := models.NormalizeID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, errOccurred, http.StatusBadRequest, msgInvalidID)
		return "", false
	}
	return id, true
}

// decode reads a JSON body into dst and validates it. On failure it writes a
// 422 envelope and returns false.
func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, common.ErrorValidation.Error(), http.StatusUnprocessableEntity, "Invalid request body.")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, common.ErrorValidation.Error(), http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

// fail maps a service error onto the error envelope.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, common.ErrInvalidID):
		writeError(w, errOccurred, http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, common.ErrEmptyUpdate):
		writeError(w, errOccurredAlt, http.StatusUnprocessableEntity, "Empty update payload.")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, errOccurredAlt, http.StatusNotFound, notFoundMsg)
	default:
		s.logger.Error(r.Context(), "request failed", "error", err.Error(), "request_id", RequestID(r.Context()))
		writeError(w, errOccurred, http.StatusInternalServerError, common.ErrorInternal.Error())
	}
}
