package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-service/internal/domain"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tm := NewSessionTokenManager("test-secret", time.Hour)

	token, expiresAt, err := tm.Mint("user-1", domain.RoleModerator, "Mina")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "Mina", claims.Name)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tm := NewSessionTokenManager("secret-a", time.Hour)
	other := NewSessionTokenManager("secret-b", time.Hour)

	token, _, err := tm.Mint("user-1", domain.RoleUser, "")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	tm := NewSessionTokenManager("test-secret", time.Hour)

	claims := &SessionClaims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Error(t, err)
}

func TestSessionTokenRejectsForeignAlg(t *testing.T) {
	tm := NewSessionTokenManager("test-secret", time.Hour)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Error(t, err)
}

func TestSessionTokenMissingSubject(t *testing.T) {
	tm := NewSessionTokenManager("test-secret", time.Hour)

	token, _, err := tm.Mint("", domain.RoleUser, "")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	tm := NewSessionTokenManager("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := tm.Verify(tok)
		assert.Error(t, err)
	}
}

func TestDefaultTTL(t *testing.T) {
	tm := NewSessionTokenManager("test-secret", 0)
	assert.Equal(t, 7*24*time.Hour, tm.TTL())
}
