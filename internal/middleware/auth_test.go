package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/todo-api/internal/auth"
	"github.com/iliyamo/todo-api/internal/model"
)

// stubLookup satisfies UserLookup with a fixed set of accounts.
type stubLookup struct {
	users map[string]model.User
	err   error
}

func (s stubLookup) GetByUsername(ctx context.Context, username string) (model.User, error) {
	if s.err != nil {
		return model.User{}, s.err
	}
	u, ok := s.users[username]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func runGuard(t *testing.T, tokens *auth.TokenService, users UserLookup, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":  c.Get("user_id"),
			"username": c.Get("username"),
		})
	}, JWTAuth(tokens, users))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
	tokens := auth.NewTokenService("s", time.Minute)
	rec := runGuard(t, tokens, stubLookup{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthNonBearerHeader(t *testing.T) {
	tokens := auth.NewTokenService("s", time.Minute)
	rec := runGuard(t, tokens, stubLookup{}, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	tokens := auth.NewTokenService("s", time.Minute)
	rec := runGuard(t, tokens, stubLookup{}, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tokens := auth.NewTokenService("s", time.Minute)
	tok, err := tokens.Issue("alice", 0)
	require.NoError(t, err)

	rec := runGuard(t, tokens, stubLookup{}, "Bearer "+tok.Value)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthDeletedUser(t *testing.T) {
	tokens := auth.NewTokenService("s", time.Minute)
	tok, err := tokens.Issue("ghost", time.Minute)
	require.NoError(t, err)

	// The signature is valid but the subject has no account anymore.
	rec := runGuard(t, tokens, stubLookup{users: map[string]model.User{}}, "Bearer "+tok.Value)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthSuccessInjectsIdentity(t *testing.T) {
	tokens := auth.NewTokenService("s", time.Minute)
	tok, err := tokens.Issue("alice", time.Minute)
	require.NoError(t, err)

	users := stubLookup{users: map[string]model.User{
		"alice": {ID: 42, Username: "alice", Email: "alice@example.com"},
	}}
	rec := runGuard(t, tokens, users, "Bearer "+tok.Value)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":42,"username":"alice"}`, rec.Body.String())
}
