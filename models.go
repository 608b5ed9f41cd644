package userrequests

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole string

const (
	// RoleUser is a regular applicant (i.e. submit requests)
	RoleUser UserRole = "user"
	// RoleAdmin is an administrator (i.e. list, resolve, delete requests)
	RoleAdmin UserRole = "admin"
)

// User is the account model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Payload projects the record into its public shape
func (u *User) Payload() *UserPayload {
	return &UserPayload{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// ApplicationStatus is the lifecycle state of a support request
type ApplicationStatus = string

const (
	// StatusActive is the initial state of every submitted request
	StatusActive ApplicationStatus = "active"
	// StatusResolved is the terminal state, reached exactly once
	StatusResolved ApplicationStatus = "resolved"
)

// ValidStatus reports whether s names a known lifecycle state
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusResolved
}

// Application is a support request submitted by a user
type Application struct {
	bun.BaseModel `bun:"table:applications,alias:app"`
	ID            uuid.UUID         `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string            `bun:"name,notnull" json:"name,omitempty"`
	Email         string            `bun:"email,notnull" json:"email,omitempty"`
	Message       string            `bun:"message,notnull" json:"message,omitempty"`
	Status        ApplicationStatus `bun:"status,notnull,default:'active'" json:"status,omitempty"`
	Comment       string            `bun:"comment,nullzero" json:"comment,omitempty"`
	CreatedAt     *time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsResolved reports whether the request reached its terminal state
func (a *Application) IsResolved() bool {
	return a.Status == StatusResolved
}
