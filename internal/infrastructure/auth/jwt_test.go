package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/infrastructure/auth"
)

func newSession(expiresIn time.Duration) *domain.Session {
	now := time.Now().Truncate(time.Second)
	return &domain.Session{
		ID:        "session-1",
		UserID:    "user-123",
		Username:  "thu.nguyen",
		FullName:  "Nguyễn Thu",
		Role:      domain.RoleAccountant,
		CreatedAt: now.Add(-time.Second),
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret")
	session := newSession(time.Minute)

	token, err := manager.Generate(session)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	if claims.SessionID() != session.ID || claims.UserID != session.UserID || claims.Role != session.Role {
		t.Fatalf("expected claims to match session, got %+v", claims)
	}
	if claims.Username != "thu.nguyen" {
		t.Fatalf("expected username claim, got %q", claims.Username)
	}
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret")

	expiredToken, err := manager.Generate(newSession(-time.Minute))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	if _, err := manager.Verify(expiredToken); err != domain.ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	otherManager := auth.NewJWTManager("other-secret")
	valid, err := manager.Generate(newSession(time.Minute))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, err := otherManager.Verify(valid); err != domain.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}

	if _, err := manager.Verify("not-a-token"); err != domain.ErrInvalidToken {
		t.Fatalf("expected failure for malformed token, got %v", err)
	}
}

func TestJWTManagerRejectsTokenWithoutSession(t *testing.T) {
	t.Parallel()

	claims := auth.Claims{
		UserID: "user-123",
		Role:   domain.RoleCFO,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cashflow",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := auth.NewJWTManager("secret").Verify(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManagerRejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "session-1", Issuer: "cashflow"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := auth.NewJWTManager("secret").Verify(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
