package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/userhub/userhub/internal/shared"
)

// CookieName is the cookie mirroring the token for server rendered pages.
const CookieName = "t"

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer. A non-positive ttl issues tokens without expiry.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a new token for userID.
func (i *Issuer) Issue(userID string) (string, *Claims, error) {
	now := i.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, claims, nil
}

// Parse verifies the token signature and expiry.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, translateJWTError(err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, shared.NewUnauthorizedError("invalid_token", "invalid token", nil)
	}
	return claims, nil
}

func translateJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return shared.NewUnauthorizedError("invalid_token", "jwt malformed", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return shared.NewUnauthorizedError("invalid_token", "invalid signature", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return shared.NewUnauthorizedError("invalid_token", "jwt expired", err)
	default:
		return shared.NewUnauthorizedError("invalid_token", "invalid token", err)
	}
}

// TokenFromHeader extracts a bearer token from the Authorization header.
func TokenFromHeader(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", shared.NewUnauthorizedError("credentials_required", "No authorization token was found", nil)
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", shared.NewUnauthorizedError("credentials_bad_format", "Format is Authorization: Bearer [token]", nil)
	}
	return parts[1], nil
}

// TokenFromRequest prefers the Authorization header and falls back to the cookie.
func TokenFromRequest(r *http.Request) string {
	if token, err := TokenFromHeader(r); err == nil {
		return token
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
