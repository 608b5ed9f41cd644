package userrequests

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Name() string
	Email() string
	Role() string
}

// Authenticator holds methods to deal with credentials
type Authenticator interface {
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
}

// TokenService mints and verifies access tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	Validate(token string) (AuthClaims, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
}

// IdentityProvider ensure we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Notifier delivers lifecycle notifications to applicants
type Notifier interface {
	Send(ctx context.Context, msg Notification) error
}

// SignUpInput carries the attributes needed to register an account
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     UserRole
}

// AuthResult is the outcome of a successful sign up or sign in
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        *UserPayload `json:"user"`
}

// UserPayload is the public projection of a user record
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Notification is a single email to dispatch
type Notification struct {
	To       string
	Subject  string
	Template TemplateKind
	Data     NotificationContext
}

// NotificationContext carries the values templates can render
type NotificationContext struct {
	Name      string
	Message   string
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] REQUESTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] REQUESTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] REQUESTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
