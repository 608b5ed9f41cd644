package userrequests

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther implements the Authenticator interface on top of an
// identity provider and the account store
type Auther struct {
	provider     IdentityProvider
	users        UserStore
	hasher       PasswordAuthenticator
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, users UserStore, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		users:        users,
		hasher:       BcryptHasher{},
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, mostly for tests
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithPasswordAuthenticator overrides the password hasher
func (s *Auther) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// SignUp registers a new account and signs it in. The sign in step
// reuses the submitted plaintext so both paths mint tokens the same way.
func (s *Auther) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	role := input.Role
	if role == "" {
		role = RoleUser
	}

	if !role.IsValid() {
		return nil, errors.New("unknown role", errors.CategoryValidation).
			WithTextCode("INVALID_ROLE").
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"role": role})
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check existing account")
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		Role:         role,
		PasswordHash: hash,
	}

	if _, err := s.users.Register(ctx, user); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to register account")
	}

	s.logger.Info("registered account %s", user.Email)

	return s.SignIn(ctx, input.Email, input.Password)
}

// SignIn verifies credentials and mints an access token
func (s *Auther) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("SignIn verify identity error: %v", err)
		return nil, err
	}

	if identity == nil {
		s.logger.Error("SignIn identity is nil")
		return nil, ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("SignIn token generation error: %v", err)
		return nil, err
	}

	return &AuthResult{
		AccessToken: token,
		User: &UserPayload{
			ID:    identity.ID(),
			Name:  identity.Name(),
			Email: identity.Email(),
			Role:  identity.Role(),
		},
	}, nil
}

var _ Authenticator = (*Auther)(nil)
