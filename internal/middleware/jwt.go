// Package middleware provides shared request processing for the handlers:
// JWT verification, role enforcement, and Redis-backed rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	// CtxOwnerRef is the token subject: the opaque customer or manager
	// identity everything in the reservation core is keyed by.
	CtxOwnerRef = "owner_ref"
	// CtxRole is the token's role claim (MANAGER or CUSTOMER).
	CtxRole = "role"
)

// JWTAuth returns middleware that validates a Bearer access token signed
// with HS256 and injects its subject and role claims into the request
// context. Tokens are issued by the marketplace's identity service; this
// service only verifies them.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Only HMAC; reject tokens signed any other way.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing subject"})
			}
			role, _ := claims["role"].(string)

			c.Set(CtxOwnerRef, sub)
			c.Set(CtxRole, role)
			return next(c)
		}
	}
}

// OwnerRef extracts the authenticated identity placed by JWTAuth. The empty
// string means the middleware did not run (misconfigured route).
func OwnerRef(c echo.Context) string {
	s, _ := c.Get(CtxOwnerRef).(string)
	return s
}
