package userrequests

import (
	"github.com/goliatone/go-errors"
)

// ErrNoEmptyString rejects blank passwords before they reach the hasher
var ErrNoEmptyString = errors.New("password cannot be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the single credential failure we expose
var ErrMismatchedHashAndPassword = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is returned when no account matches the identifier
var ErrIdentityNotFound = errors.New("Invalid user", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrEmailTaken is returned when sign up hits an existing account
var ErrEmailTaken = errors.New("Email already exists", errors.CategoryConflict).
	WithTextCode("EMAIL_TAKEN").
	WithCode(errors.CodeConflict)

// ErrTokenInvalid is the uniform verification failure. Expired, malformed,
// and badly signed tokens all collapse into this value so callers cannot
// probe the verifier; the concrete cause only goes to the logs.
var ErrTokenInvalid = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode("TOKEN_INVALID").
	WithCode(errors.CodeUnauthorized)

// ErrMissingToken is returned when a guarded route gets no bearer token
var ErrMissingToken = errors.New("missing or malformed authorization header", errors.CategoryAuth).
	WithTextCode("TOKEN_MISSING").
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is returned when the principal's role does not grant access
var ErrForbidden = errors.New("insufficient role", errors.CategoryAuthz).
	WithTextCode("FORBIDDEN").
	WithCode(errors.CodeForbidden)
