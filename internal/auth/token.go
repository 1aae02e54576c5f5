package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/portal-service/internal/domain"
)

// SessionTokenManager mints and verifies the self-contained session tokens
// issued by the portal's own login endpoint. Tokens are HS256 signed and
// carry the subject, role and display name, so verifying one needs no I/O.
type SessionTokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokenManager builds a new manager.
func NewSessionTokenManager(secret string, ttl time.Duration) *SessionTokenManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionTokenManager{secret: []byte(secret), ttl: ttl}
}

// SessionClaims describes the JWT payload of a local session token.
type SessionClaims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Mint builds and signs a session token for the user.
func (tm *SessionTokenManager) Mint(userID string, role domain.Role, name string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &SessionClaims{
		Role: string(role),
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the signature and expiry and returns the claims. A bad
// signature, malformed token or past expiry all fail; callers treat any
// failure as "not a local session token" and move on.
func (tm *SessionTokenManager) Verify(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("missing subject")
	}
	return claims, nil
}

// TTL exposes the configured session validity window.
func (tm *SessionTokenManager) TTL() time.Duration {
	return tm.ttl
}
