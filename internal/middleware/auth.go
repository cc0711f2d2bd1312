package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-api/internal/auth"
	"github.com/iliyamo/todo-api/internal/model"
)

// UserLookup resolves a token subject to an account. It is satisfied by
// *repository.UserRepo; tests can supply a stub.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and confirms the token's subject still has an account. A token with a
// valid signature whose user has since been removed is rejected the same
// way as a bad token: possession of a token does not imply continued
// account existence. On success the middleware stores the user's id under
// "user_id" and username under "username" in the request context.
func JWTAuth(tokens *auth.TokenService, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer <token>"; anything else is 401.
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			subject, err := tokens.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByUsername(ctx, subject)
			if err == sql.ErrNoRows {
				// Account removed since the token was issued.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
			}

			c.Set("user_id", u.ID)
			c.Set("username", u.Username)
			return next(c)
		}
	}
}
