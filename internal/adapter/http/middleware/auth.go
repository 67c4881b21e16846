package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ActorContextKey is the context key for the authenticated actor
	ActorContextKey ContextKey = "actor"

	// SessionContextKey is the context key for the session id
	SessionContextKey ContextKey = "session"
)

// SessionLookup resolves a live session.
type SessionLookup interface {
	Session(ctx context.Context, id string) (*domain.Session, error)
}

// Authenticator resolves the caller of a request.
type Authenticator struct {
	jwtManager   *auth.JWTManager
	sessions     SessionLookup
	enabled      bool
	defaultActor domain.Actor
}

// NewAuthenticator creates an Authenticator. When enabled is false every
// request runs as defaultActor.
func NewAuthenticator(jwtManager *auth.JWTManager, sessions SessionLookup, enabled bool, defaultActor domain.Actor) *Authenticator {
	return &Authenticator{
		jwtManager:   jwtManager,
		sessions:     sessions,
		enabled:      enabled,
		defaultActor: defaultActor,
	}
}

// Enabled reports whether bearer tokens are required.
func (a *Authenticator) Enabled() bool {
	return a.enabled
}

// Authenticate requires a valid bearer token bound to a live session.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled {
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), a.defaultActor)))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := a.jwtManager.Verify(parts[1])
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		// Logout deletes the session, which revokes tokens issued for it.
		session, err := a.sessions.Session(r.Context(), claims.SessionID())
		if err != nil {
			unauthorized(w, "session expired")
			return
		}

		actor := domain.Actor{
			UserID:   session.UserID,
			FullName: session.FullName,
			Role:     session.Role,
		}

		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", actor.UserID)
		})

		ctx := WithActor(r.Context(), actor)
		ctx = context.WithValue(ctx, SessionContextKey, session.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission rejects callers whose role fails allowed.
func RequirePermission(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				unauthorized(w, "unauthorized")
				return
			}

			if !allowed(actor.Role) {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithActor returns ctx carrying actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, ActorContextKey, actor)
}

// ActorFromContext extracts the authenticated actor from context
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(ActorContextKey).(domain.Actor)
	return actor, ok
}

// SessionIDFromContext returns the session id of a token-authenticated request.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionContextKey).(string)
	return id, ok && id != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="cashflow"`)
	writeError(w, http.StatusUnauthorized, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
