package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// SessionCookieName is the browser cookie carrying the signed session ID.
const SessionCookieName = "pratoja_session"

// Claims is the payload minted into the session cookie. Only the edge-local
// session ID travels to the browser; identity and the upstream credential stay
// in the server-side registry.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec mints and validates HMAC-signed (HS256) session cookies.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CookieCodec{secret: []byte(strings.TrimSpace(secret)), ttl: ttl, now: time.Now}
}

// Mint signs a cookie value for the given session ID.
func (c *CookieCodec) Mint(sessionID string) (string, error) {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" {
		return "", ErrMissingToken
	}
	if len(c.secret) == 0 {
		return "", fmt.Errorf("cookie secret not configured")
	}
	issued := c.now()
	claims := &Claims{
		SessionID: trimmed,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   trimmed,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Validate parses and verifies a cookie value, returning its claims.
func (c *CookieCodec) Validate(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if len(c.secret) == 0 {
		return nil, fmt.Errorf("%w: cookie secret not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" {
		claims.SessionID = claims.RegisteredClaims.Subject
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}
	return claims, nil
}
