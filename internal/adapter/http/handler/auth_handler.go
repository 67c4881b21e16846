package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/cashflow/internal/adapter/http/dto"
	"github.com/iho/cashflow/internal/adapter/http/middleware"
	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/auth"
)

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	RecordLogin(ok bool)
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users      UserService
	jwtManager *auth.JWTManager
	metrics    LoginRecorder
}

// NewAuthHandler creates a new auth handler. metrics may be nil.
func NewAuthHandler(users UserService, jwtManager *auth.JWTManager, metrics LoginRecorder) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtManager: jwtManager,
		metrics:    metrics,
	}
}

// Register creates a user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to register user", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Login verifies credentials and returns a bearer token for a new session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.users.Login(r.Context(), req.ToUseCaseInput())
	h.recordLogin(err == nil)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			zerolog.Ctx(r.Context()).Warn().Str("username", req.Username).Msg("login failed")
		}
		writeDomainError(w, r, "login failed", err)
		return
	}

	token, err := h.jwtManager.Generate(session)
	if err != nil {
		writeDomainError(w, r, "failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewLoginResponse(token, session))
}

// Logout ends the caller's session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.users.Logout(r.Context(), sessionID); err != nil {
		writeDomainError(w, r, "failed to log out", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{
		ID:        actor.UserID,
		FullName:  actor.FullName,
		Role:      actor.Role,
		RoleLabel: actor.Role.Label(),
	})
}

// ListUsers lists registered users.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to list users", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersFromDomain(users))
}

func (h *AuthHandler) recordLogin(ok bool) {
	if h.metrics != nil {
		h.metrics.RecordLogin(ok)
	}
}
