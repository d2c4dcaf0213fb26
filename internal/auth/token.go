package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, expiry. Callers get no finer detail.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the session token payload. Tokens are stateless: no
// server-side record exists, possession of a validly signed unexpired
// token is the whole authorization check.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID int64
	Email  string
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager returns a manager signing with secret; ttl defaults
// to 24h when non-positive.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a fresh token for the user.
func (m *TokenManager) Issue(u dom.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token, returning the embedded identity.
func (m *TokenManager) Verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
