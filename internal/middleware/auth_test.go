package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warteg-pro/api/internal/auth"
	"github.com/warteg-pro/api/internal/middleware"
	"github.com/warteg-pro/api/internal/state"
)

const testSecret = "test-secret"

var kitchenUser = state.User{ID: "u2", Name: "Chef Juna", Role: "KITCHEN"}

// fakeSessions resolves only the users it holds.
type fakeSessions map[string]state.User

func (f fakeSessions) Restore(_ context.Context, userID string) (state.User, error) {
	u, ok := f[userID]
	if !ok {
		return state.User{}, errors.New("no session")
	}
	return u, nil
}

func tokenFor(t *testing.T, u state.User) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, u, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	sessions := fakeSessions{kitchenUser.ID: kitchenUser}

	handler := middleware.Authenticate(testSecret, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			t.Fatal("expected actor in context")
		}
		if actor.ID != kitchenUser.ID {
			t.Errorf("user ID: got %v, want %v", actor.ID, kitchenUser.ID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, kitchenUser))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	valid := tokenFor(t, kitchenUser)

	tests := []struct {
		name     string
		header   string
		sessions fakeSessions
	}{
		{"missing header", "", fakeSessions{kitchenUser.ID: kitchenUser}},
		{"wrong scheme", "Basic " + valid, fakeSessions{kitchenUser.ID: kitchenUser}},
		{"invalid token", "Bearer invalid-token", fakeSessions{kitchenUser.ID: kitchenUser}},
		{"logged out", "Bearer " + valid, fakeSessions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(testSecret, tt.sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be called")
			}))

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name  string
		actor *state.User
		roles []string
		want  int
	}{
		{"allowed", &kitchenUser, []string{"KITCHEN", "ADMIN"}, http.StatusOK},
		{"denied", &kitchenUser, []string{"ADMIN"}, http.StatusForbidden},
		{"anonymous", nil, []string{"ADMIN"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.actor != nil {
				req = req.WithContext(middleware.WithActor(req.Context(), *tt.actor))
			}
			rr := httptest.NewRecorder()
			middleware.RequireRole(tt.roles...)(inner).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Get("/menu/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/menu/1", nil))

	if rr.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusTeapot)
	}
}
