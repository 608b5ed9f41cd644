package userrequests_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	userrequests "github.com/factscub/user-requests-api"
)

func TestJWTClaims(t *testing.T) {
	now := time.Now()
	claims := &userrequests.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-id",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UID:       "user-id",
		UserName:  "Ada Lovelace",
		UserEmail: "ada@example.com",
		UserRole:  "admin",
	}

	t.Run("accessors", func(t *testing.T) {
		assert.Equal(t, "subject-id", claims.Subject())
		assert.Equal(t, "user-id", claims.UserID())
		assert.Equal(t, "Ada Lovelace", claims.Name())
		assert.Equal(t, "ada@example.com", claims.Email())
		assert.Equal(t, "admin", claims.Role())
		assert.Equal(t, now.Unix(), claims.IssuedAt().Unix())
		assert.Equal(t, now.Add(time.Hour).Unix(), claims.Expires().Unix())
	})

	t.Run("uid falls back to subject", func(t *testing.T) {
		c := &userrequests.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "only-subject"},
		}
		assert.Equal(t, "only-subject", c.UserID())
	})

	t.Run("role checks", func(t *testing.T) {
		assert.True(t, claims.HasRole("admin"))
		assert.False(t, claims.HasRole("user"))
		assert.True(t, claims.IsAtLeast("user"))
		assert.True(t, claims.IsAtLeast("admin"))
	})

	t.Run("user role is not at least admin", func(t *testing.T) {
		c := &userrequests.JWTClaims{UserRole: "user"}
		assert.False(t, c.IsAtLeast("admin"))
		assert.True(t, c.IsAtLeast("user"))
	})

	t.Run("zero times when unset", func(t *testing.T) {
		c := &userrequests.JWTClaims{}
		assert.True(t, c.Expires().IsZero())
		assert.True(t, c.IssuedAt().IsZero())
	})
}
