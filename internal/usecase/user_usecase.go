package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/cashflow/internal/domain"
)

// UserUseCase handles registration, login and sessions.
type UserUseCase struct {
	writeMu     sync.Locker
	userRepo    UserRepository
	sessionRepo SessionRepository
	idGen       IDGenerator
	events      eventEmitter
	sessionTTL  time.Duration
	now         Clock
}

// NewUserUseCase creates a new user use case. A zero ttl means DefaultSessionTTL.
func NewUserUseCase(userRepo UserRepository, sessionRepo SessionRepository, idGen IDGenerator, publisher EventPublisher, logger zerolog.Logger, ttl time.Duration, now Clock) *UserUseCase {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now = orDefaultClock(now)
	return &UserUseCase{
		writeMu:     writeLockFor(userRepo),
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		idGen:       idGen,
		events:      eventEmitter{publisher: publisher, idGen: idGen, now: now, logger: logger},
		sessionTTL:  ttl,
		now:         now,
	}
}

// RegisterInput represents input for creating a user
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Role     domain.Role
}

// Register creates a new user with a hashed password.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, domain.ErrInvalidFullName
	}
	if !input.Role.IsValid() {
		return nil, fmt.Errorf("%w: role %q", domain.ErrInvalidEnum, input.Role)
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	uc.writeMu.Lock()
	defer uc.writeMu.Unlock()

	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if _, ok := findUser(users, username); ok {
		return nil, domain.ErrUsernameTaken
	}

	user := domain.User{
		ID:           uc.idGen.Generate(),
		Username:     username,
		PasswordHash: hashed,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         input.Role,
		CreatedAt:    uc.now().UTC(),
	}

	if err := uc.userRepo.ReplaceAll(ctx, append(users, user)); err != nil {
		return nil, fmt.Errorf("failed to save users: %w", err)
	}

	uc.events.emit(ctx, domain.EventTypeUserRegistered, domain.AggregateTypeUser, user.ID,
		map[string]any{"username": user.Username, "role": string(user.Role)})

	user.PasswordHash = ""
	return &user, nil
}

// LoginInput represents authentication input
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and opens a session.
func (uc *UserUseCase) Login(ctx context.Context, input LoginInput) (*domain.Session, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	user, ok := findUser(users, strings.TrimSpace(input.Username))
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if err := verifyPassword(user.PasswordHash, input.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now().UTC()
	session := &domain.Session{
		ID:        uc.idGen.Generate(),
		UserID:    user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.sessionTTL),
	}

	if err := uc.sessionRepo.Create(ctx, session, uc.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Session returns a live session by id.
func (uc *UserUseCase) Session(ctx context.Context, id string) (*domain.Session, error) {
	session, err := uc.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.now().Before(session.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Logout deletes a session.
func (uc *UserUseCase) Logout(ctx context.Context, id string) error {
	return uc.sessionRepo.Delete(ctx, id)
}

// ListUsers lists registered users without password hashes.
func (uc *UserUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func findUser(users []domain.User, username string) (domain.User, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return domain.User{}, false
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
