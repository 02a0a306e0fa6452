package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/state"
)

// UserServicer is satisfied by *service.UserService.
type UserServicer interface {
	List(actor state.User) ([]state.User, error)
	Create(actor state.User, name, email, role string) (state.User, error)
	Remove(ctx context.Context, actor state.User, id string) error
}

// UserHandler handles admin account management.
type UserHandler struct {
	users UserServicer
}

func NewUserHandler(users UserServicer) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers user endpoints: /admin/users
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// List handles GET /admin/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	users, err := h.users.List(actor)
	if err != nil {
		writeServiceError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Create handles POST /admin/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Create(actor, req.Name, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, r, "create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Delete handles DELETE /admin/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.users.Remove(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
