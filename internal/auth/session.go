package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	FormSessionCookie = "form_session"
	formAudience      = "career-fair-form"
)

var (
	ErrSessionMismatch = errors.New("form session token does not match")
	ErrSessionExpired  = errors.New("form session token expired")
)

// FormTokens signs the cookie that binds a browser to its in-memory form
// session. The form id alone is not enough to edit or submit a form.
type FormTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewFormTokens(secret string, ttl time.Duration) *FormTokens {
	return &FormTokens{secret: []byte(secret), ttl: ttl}
}

func (t *FormTokens) TTL() time.Duration {
	return t.ttl
}

func (t *FormTokens) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Audience:  jwt.ClaimStrings{formAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks that token is valid and was issued for sessionID. Callers
// reissue the token on every authorized request, so it only expires after the
// session has been idle for the whole ttl.
func (t *FormTokens) Verify(token, sessionID string) error {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(formAudience),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	if err != nil || !parsed.Valid {
		return fmt.Errorf("invalid form session token: %w", err)
	}
	if claims.Subject != sessionID {
		return ErrSessionMismatch
	}
	return nil
}
