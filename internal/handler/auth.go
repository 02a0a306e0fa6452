package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/auth"
	"github.com/warteg-pro/api/internal/service"
	"github.com/warteg-pro/api/internal/state"
)

// SessionServicer defines the session methods needed by auth handlers.
// Satisfied by *service.SessionService; narrow interface for testability.
type SessionServicer interface {
	Login(ctx context.Context, req service.LoginRequest) (state.User, error)
	Register(ctx context.Context, name, email string) (state.User, error)
	Logout(ctx context.Context, actor state.User) error
}

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	sessions  SessionServicer
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthHandler(sessions SessionServicer, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// RegisterRoutes registers the public auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
}

// RegisterSessionRoutes registers endpoints that need an authenticated actor.
func (h *AuthHandler) RegisterSessionRoutes(r chi.Router) {
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
}

// --- Request / Response types ---

type loginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	User        state.User `json:"user"`
}

// --- Handlers ---

// Login handles POST /auth/login. Any email is accepted.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.sessions.Login(r.Context(), service.LoginRequest{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	})
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}
	h.respondWithToken(w, http.StatusOK, user)
}

// Register handles POST /auth/register. New accounts are customers.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.sessions.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		writeServiceError(w, r, "register", err)
		return
	}
	h.respondWithToken(w, http.StatusCreated, user)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Logout(r.Context(), actor); err != nil {
		writeServiceError(w, r, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, actor)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user state.User) {
	token, err := auth.GenerateToken(h.jwtSecret, user, h.tokenTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, tokenResponse{AccessToken: token, User: user})
}
