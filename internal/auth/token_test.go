package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	tok, err := svc.Issue("alice", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Minute), tok.Exp, 5*time.Second)

	sub, err := svc.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestZeroTTLIsImmediatelyInvalid(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	tok, err := svc.Issue("alice", 0)
	require.NoError(t, err)

	_, err = svc.Verify(tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-one", 30*time.Minute)
	verifier := NewTokenService("secret-two", 30*time.Minute)

	tok, err := issuer.Issue("alice", time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingSubject(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	// A well-signed token without a sub claim must still be rejected.
	claims := jwt.MapClaims{
		"exp": time.Now().UTC().Add(time.Minute).Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	// alg=none tokens must never verify.
	claims := jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().UTC().Add(time.Minute).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultTTL(t *testing.T) {
	svc := NewTokenService("test-secret", 0)
	assert.Equal(t, 30*time.Minute, svc.TTL())

	tok, err := svc.IssueDefault("bob")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), tok.Exp, 5*time.Second)

	sub, err := svc.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "bob", sub)
}
