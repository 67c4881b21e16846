package domain

import (
	"errors"
	"time"
)

// User represents a registered operator of the books.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session binds an issued token to a user.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID   string
	FullName string
	Role     Role
}

// Role represents a user's access level
type Role string

const (
	// RoleCFO approves budgets and manages the whole data set.
	RoleCFO Role = "CFO"

	// RoleAccountant records transactions and drafts budgets.
	RoleAccountant Role = "ACCOUNTANT"

	// RoleManager can only view.
	RoleManager Role = "MANAGER"
)

var roleLabels = map[Role]string{
	RoleCFO:        "Admin (CFO)",
	RoleAccountant: "Kế toán",
	RoleManager:    "Quản lý",
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return isKnown(roleLabels, r)
}

func (r Role) Label() string { return labelOf(roleLabels, r) }

func (r *Role) UnmarshalText(b []byte) error {
	*r = codeOf(roleLabels, string(b))
	return nil
}

// CanRecordTransactions checks if the role may create transactions.
func (r Role) CanRecordTransactions() bool {
	return r == RoleCFO || r == RoleAccountant
}

// CanEditBudgets checks if the role may save budget drafts.
func (r Role) CanEditBudgets() bool {
	return r == RoleCFO || r == RoleAccountant
}

// CanApproveBudgets checks if a budget saved by this role is approved.
func (r Role) CanApproveBudgets() bool {
	return r == RoleCFO
}

// CanManageState checks if the role may edit the opening balance, import,
// export or reset the data set.
func (r Role) CanManageState() bool {
	return r == RoleCFO
}

// Authentication errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInsufficientRole   = errors.New("insufficient role for this operation")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrSessionNotFound    = errors.New("session not found")
)
