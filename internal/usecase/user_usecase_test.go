package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/cashflow/internal/domain"
	"github.com/iho/cashflow/internal/usecase"
	"github.com/iho/cashflow/internal/usecase/mocks"
)

func newUserUseCase(store *mocks.FakeStore, now usecase.Clock) *usecase.UserUseCase {
	return usecase.NewUserUseCase(store.Users(), store.Sessions(), mocks.NewFakeIDGenerator(), nil, nop, time.Hour, now)
}

func TestUserUseCase_Register_Success(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeStore()
	uc := newUserUseCase(store, fixedClock)

	user, err := uc.Register(context.Background(), usecase.RegisterInput{
		Username: "ketoan01",
		Password: "secret123",
		FullName: "Trần Thị B",
		Role:     domain.RoleAccountant,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected returned user to omit password hash")
	}
	if user.ID == "" {
		t.Fatal("expected user id to be assigned")
	}

	stored, _ := store.Users().List(context.Background())
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(stored))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored[0].PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserUseCase_Register_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   usecase.RegisterInput
		wantErr error
	}{
		{
			name:    "empty username",
			input:   usecase.RegisterInput{Password: "secret123", FullName: "A", Role: domain.RoleCFO},
			wantErr: domain.ErrInvalidUsername,
		},
		{
			name:    "username with colon",
			input:   usecase.RegisterInput{Username: "a:b", Password: "secret123", FullName: "A", Role: domain.RoleCFO},
			wantErr: domain.ErrInvalidUsername,
		},
		{
			name:    "short password",
			input:   usecase.RegisterInput{Username: "cfo", Password: "12345", FullName: "A", Role: domain.RoleCFO},
			wantErr: domain.ErrPasswordTooWeak,
		},
		{
			name:    "missing full name",
			input:   usecase.RegisterInput{Username: "cfo", Password: "secret123", Role: domain.RoleCFO},
			wantErr: domain.ErrInvalidFullName,
		},
		{
			name:    "unknown role",
			input:   usecase.RegisterInput{Username: "cfo", Password: "secret123", FullName: "A", Role: "OWNER"},
			wantErr: domain.ErrInvalidEnum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := newUserUseCase(mocks.NewFakeStore(), fixedClock)
			_, err := uc.Register(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUserUseCase_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()

	uc := newUserUseCase(mocks.NewFakeStore(), fixedClock)
	ctx := context.Background()
	input := usecase.RegisterInput{Username: "cfo", Password: "secret123", FullName: "A", Role: domain.RoleCFO}

	if _, err := uc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	input.Username = "CFO"
	if _, err := uc.Register(ctx, input); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserUseCase_LoginSessionLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := fixedClock()
	clock := func() time.Time { return now }

	store := mocks.NewFakeStore()
	uc := newUserUseCase(store, clock)

	if _, err := uc.Register(ctx, usecase.RegisterInput{
		Username: "cfo", Password: "secret123", FullName: "Nguyễn Văn A", Role: domain.RoleCFO,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := uc.Login(ctx, usecase.LoginInput{Username: "cfo", Password: "wrong-pass"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := uc.Login(ctx, usecase.LoginInput{Username: "nobody", Password: "secret123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	session, err := uc.Login(ctx, usecase.LoginInput{Username: "cfo", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Role != domain.RoleCFO || session.FullName != "Nguyễn Văn A" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if !session.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry in one hour, got %v", session.ExpiresAt)
	}

	if _, err := uc.Session(ctx, session.ID); err != nil {
		t.Fatalf("session lookup: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := uc.Session(ctx, session.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be rejected, got %v", err)
	}

	if err := uc.Logout(ctx, session.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := store.Sessions().Get(ctx, session.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session to be deleted, got %v", err)
	}
}

func TestUserUseCase_ListUsersHidesHashes(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeStore()
	uc := newUserUseCase(store, fixedClock)
	ctx := context.Background()

	if _, err := uc.Register(ctx, usecase.RegisterInput{Username: "ql", Password: "secret123", FullName: "C", Role: domain.RoleManager}); err != nil {
		t.Fatalf("register: %v", err)
	}

	users, err := uc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("expected hash to be stripped for %s", u.Username)
		}
	}
}
