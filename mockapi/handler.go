// Package mockapi is an in-memory implementation of the User API. It is used by the test
// suite's own tests, and can be run standalone with cmd/user-api-mock to try the suite out.
package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AleksandrSamusev/user-api-contract-tests/servicedef"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	msgInvalidID     = "Invalid user ID format"
	msgNotFound      = "User not found"
	msgEmailTaken    = "User with this email already exists"
	msgInvalidJSON   = "Request body must be a JSON object"
	msgInvalidSortBy = "Invalid sort field"
)

// Handler serves the User API under one base path.
type Handler struct {
	store *store
}

func NewHandler() *Handler {
	return &Handler{store: newStore()}
}

// Routes mounts the user endpoints at base, for instance "/users".
func (h *Handler) Routes(r chi.Router, base string) {
	r.Route(base, func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// NewRouter returns a router serving a fresh, empty User API at base. The root path answers
// 200 so that readiness checks succeed.
func NewRouter(base string, middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares...)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	NewHandler().Routes(r, base)
	return r
}

// CreateUser handles POST {base}.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	if errs := validate(body); len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs...)
		return
	}
	u, err := h.store.create(body)
	if err != nil {
		writeErrors(w, http.StatusConflict, msgEmailTaken)
		return
	}
	writeJSON(w, http.StatusCreated, servicedef.DataResponse{Message: servicedef.MessageUserCreated, Data: u})
}

// ListUsers handles GET {base}, with an optional sortBy query parameter.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get(servicedef.SortQueryParam)
	if sortBy != "" && !validSortBy(sortBy) {
		writeErrors(w, http.StatusBadRequest, msgInvalidSortBy)
		return
	}
	writeJSON(w, http.StatusOK, servicedef.DataResponse{Message: servicedef.MessageSuccess, Data: h.store.list(sortBy)})
}

// GetUser handles GET {base}/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	u, found := h.store.get(id)
	if !found {
		writeErrors(w, http.StatusNotFound, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, servicedef.DataResponse{Message: servicedef.MessageSuccess, Data: u})
}

// UpdateUser handles PUT {base}/{id}. Properties that are absent or null keep their stored
// values.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	existing, found := h.store.get(id)
	if !found {
		writeErrors(w, http.StatusNotFound, msgNotFound)
		return
	}
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	merged := mergeForUpdate(existing, body)
	if errs := validate(merged); len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs...)
		return
	}
	u, err := h.store.update(id, merged)
	switch {
	case errors.Is(err, errNotFound):
		writeErrors(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, errEmailTaken):
		writeErrors(w, http.StatusConflict, msgEmailTaken)
	default:
		writeJSON(w, http.StatusOK, servicedef.DataResponse{Message: servicedef.MessageSuccess, Data: u})
	}
}

// DeleteUser handles DELETE {base}/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if !h.store.delete(id) {
		writeErrors(w, http.StatusNotFound, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, servicedef.MessageResponse{Message: servicedef.MessageSuccess})
}

// userID returns the {id} path parameter in canonical form, or writes a 400 if it is not a UUID.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	parsed, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrors(w, http.StatusBadRequest, msgInvalidID)
		return "", false
	}
	return parsed.String(), true
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		writeErrors(w, http.StatusBadRequest, msgInvalidJSON)
		return nil, false
	}
	return body, true
}

func writeErrors(w http.ResponseWriter, status int, messages ...string) {
	writeJSON(w, status, servicedef.ErrorResponse{Errors: messages})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
