package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/warteg-pro/api/internal/auth"
	"github.com/warteg-pro/api/internal/logging"
	"github.com/warteg-pro/api/internal/state"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorResolver loads the current user from the session slot.
// Satisfied by *service.SessionService.
type ActorResolver interface {
	Restore(ctx context.Context, userID string) (state.User, error)
}

// Authenticate validates the bearer token and resolves the actor from the
// session slot, so a logged-out token stops working before it expires.
func Authenticate(jwtSecret string, sessions ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			actor, err := sessions.Restore(r.Context(), claims.UserID)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
				return
			}

			ctx := WithActor(r.Context(), actor)
			ctx = logging.WithCtx(ctx, logging.FromCtx(ctx).With("user_id", actor.ID, "role", actor.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		})
	}
}

func WithActor(ctx context.Context, actor state.User) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (state.User, bool) {
	actor, ok := ctx.Value(actorKey).(state.User)
	return actor, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
