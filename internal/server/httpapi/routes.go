package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/propkeeper/internal/common"
)

// Handler builds the router. Property routes are registered ahead of the
// {id} routes so "/User/properties/..." never reaches the id handlers.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog, s.recoverPanic)

	r.HandleFunc("/", s.root).Methods(http.MethodGet)

	r.HandleFunc(common.UsersPathPrefix, s.listUsers).Methods(http.MethodGet)
	r.HandleFunc(common.UsersPathPrefix, s.createUser).Methods(http.MethodPost)

	u := r.PathPrefix(common.UsersPathPrefix).Subrouter()

	u.HandleFunc("/", s.listUsers).Methods(http.MethodGet)
	u.HandleFunc("/", s.createUser).Methods(http.MethodPost)

	u.HandleFunc("/properties/{propId}/data", s.updatePropertyData).Methods(http.MethodPut)
	u.HandleFunc("/properties/{propId}", s.updatePropertyOwner).Methods(http.MethodPut)
	u.HandleFunc("/properties/{propId}", s.deleteProperty).Methods(http.MethodDelete)

	u.HandleFunc("/{id}/properties", s.getUserProperties).Methods(http.MethodGet)
	u.HandleFunc("/{id}/properties", s.addProperty).Methods(http.MethodPost)

	u.HandleFunc("/{id}", s.getUser).Methods(http.MethodGet)
	u.HandleFunc("/{id}", s.updateUser).Methods(http.MethodPut)
	u.HandleFunc("/{id}", s.deleteUser).Methods(http.MethodDelete)

	return r
}
