package middleware

import (
	"errors"

	"opsmanual/internal/common"
	"opsmanual/internal/metrics"
	"opsmanual/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	claimsContextKey   = "access_claims"
	identityContextKey = "identity"
)

var errInvalidAccessToken = errors.New("invalid access token")

// Authenticate resolves the bearer access token to a live, active user and
// attaches the identity to the request context. Deactivated or deleted users
// are rejected even while their token is still valid.
func Authenticate(tokens services.TokenService, auth services.AuthService) echo.MiddlewareFunc {
	parse := echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, ok := tokens.VerifyAccess(raw)
			if !ok {
				return nil, errInvalidAccessToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			metrics.ObserveAuth("authenticate", "invalid_token")
			return common.ErrUnauthenticated
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return parse(func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*services.AccessClaims)
			if !ok {
				return common.ErrUnauthenticated
			}
			userID, err := claims.UserID()
			if err != nil {
				return common.ErrUnauthenticated
			}

			ctx := c.Request().Context()
			identity, err := auth.ResolveIdentity(ctx, userID)
			if err != nil {
				if errors.Is(err, common.ErrUnauthenticated) {
					metrics.ObserveAuth("authenticate", "inactive_user")
				}
				return err
			}

			c.Set(identityContextKey, identity)
			c.SetRequest(c.Request().WithContext(common.WithIdentity(ctx, identity)))
			return next(c)
		})
	}
}
