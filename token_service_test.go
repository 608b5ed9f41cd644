package userrequests_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userrequests "github.com/factscub/user-requests-api"
)

var testSigningKey = []byte("test-signing-key")

func newTestIdentity() testIdentity {
	return testIdentity{
		id:    "c0b2ff65-77ec-41a4-a2ba-521dd55ae5a6",
		name:  "Ada Lovelace",
		email: "ada@example.com",
		role:  "user",
	}
}

func TestNewTokenService(t *testing.T) {
	t.Run("creates token service with logger", func(t *testing.T) {
		logger := &MockLogger{}
		service := userrequests.NewTokenService(testSigningKey, 24, "test-issuer", logger)
		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := userrequests.NewTokenService(testSigningKey, 24, "test-issuer", nil)
		assert.NotNil(t, service)
	})
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	service := userrequests.NewTokenService(testSigningKey, 24, "test-issuer", nil)
	identity := newTestIdentity()

	token, err := service.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, identity.id, claims.Subject())
	assert.Equal(t, identity.id, claims.UserID())
	assert.Equal(t, identity.name, claims.Name())
	assert.Equal(t, identity.email, claims.Email())
	assert.Equal(t, identity.role, claims.Role())
	assert.True(t, claims.HasRole("user"))
	assert.False(t, claims.HasRole("admin"))
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.Expires(), time.Minute)
}

func TestTokenService_Validate_Failures(t *testing.T) {
	service := userrequests.NewTokenService(testSigningKey, 24, "test-issuer", nil)
	identity := newTestIdentity()

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.Validate("not-a-token")
		assert.ErrorIs(t, err, userrequests.ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := userrequests.NewTokenService(testSigningKey, -1, "test-issuer", nil)
		token, err := expired.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.ErrorIs(t, err, userrequests.ErrTokenInvalid)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := userrequests.NewTokenService([]byte("another-key"), 24, "test-issuer", nil)
		token, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.ErrorIs(t, err, userrequests.ErrTokenInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := userrequests.NewTokenService(testSigningKey, 24, "someone-else", nil)
		token, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.ErrorIs(t, err, userrequests.ErrTokenInvalid)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &userrequests.JWTClaims{})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.Validate(raw)
		assert.ErrorIs(t, err, userrequests.ErrTokenInvalid)
	})
}

func TestTokenService_SignClaims(t *testing.T) {
	impl := userrequests.NewTokenService(testSigningKey, 24, "test-issuer", nil).(*userrequests.TokenServiceImpl)

	t.Run("nil claims", func(t *testing.T) {
		_, err := impl.SignClaims(nil)
		assert.Error(t, err)
	})

	t.Run("round trips custom claims", func(t *testing.T) {
		now := time.Now()
		token, err := impl.SignClaims(&userrequests.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Subject:   "some-subject",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			UserRole: "admin",
		})
		require.NoError(t, err)

		claims, err := impl.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "some-subject", claims.Subject())
		// UID falls back to the subject when absent
		assert.Equal(t, "some-subject", claims.UserID())
		assert.True(t, claims.IsAtLeast("user"))
	})
}
