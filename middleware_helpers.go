package userrequests

import (
	"context"

	"github.com/factscub/user-requests-api/middleware/jwtware"
)

// TokenValidatorAdapter bridges the TokenService to the middleware's
// validator interface. The concrete claims satisfy both interfaces.
func TokenValidatorAdapter(ts TokenService) jwtware.TokenValidator {
	return jwtwareValidator{ts: ts}
}

type jwtwareValidator struct {
	ts TokenService
}

func (v jwtwareValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	bridged, ok := claims.(jwtware.AuthClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return bridged, nil
}

// ContextEnricherAdapter adapts jwtware.AuthClaims to AuthClaims and stores
// them in the standard context for downstream usage.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, authClaims)
}
