// Package auth issues and verifies the signed bearer tokens used to
// authenticate API requests.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken covers every verification failure: malformed input, a
// signature that does not match, a missing subject claim, or an expired
// token. Callers get a single sentinel so the outward signal does not
// leak which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Token is a signed JWT together with its expiry. The Value field holds
// the serialized token string handed to the client; Exp is the UTC
// expiration time encoded in the exp claim.
type Token struct {
	Value string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenService signs and verifies HS256 access tokens. The signing secret
// and the default time-to-live are injected at construction rather than
// read from process-wide state.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService with the given signing secret and
// default ttl. A non-positive ttl falls back to 30 minutes.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue builds and signs an HS256 JWT for the given subject. The expiry
// is now + ttl; a negative ttl uses the service default, so Issue(sub, 0)
// produces a token that is already expired. The JWT carries the standard
// sub, exp and iat claims.
func (s *TokenService) Issue(subject string, ttl time.Duration) (Token, error) {
	if ttl < 0 {
		ttl = s.ttl
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// IssueDefault issues a token with the service's configured ttl.
func (s *TokenService) IssueDefault(subject string) (Token, error) {
	return s.Issue(subject, s.ttl)
}

// Verify parses and validates a serialized token and returns its subject.
// The signing method must be HMAC; expiry is enforced by the parser. Any
// failure is reported as ErrInvalidToken.
func (s *TokenService) Verify(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with a different algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// TTL exposes the default time-to-live the service was configured with.
func (s *TokenService) TTL() time.Duration { return s.ttl }
