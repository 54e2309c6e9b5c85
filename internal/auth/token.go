package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/grocery-list-backend/internal/user"
)

// TokenTTL is both the JWT lifetime and the session cookie Max-Age.
const TokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

func (t *Tokens) Issue(u user.User) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"userId": u.ID,
		"email":  u.Email,
		"iat":    now.Unix(),
		"exp":    now.Add(t.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the userId carried by a valid token.
func (t *Tokens) Verify(raw string) (string, error) {
	tok, err := jwt.Parse(raw, t.keyFunc)
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrInvalidToken
	}
	id, _ := claims["userId"].(string)
	if id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}

func (t *Tokens) keyFunc(tok *jwt.Token) (any, error) {
	if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
	}
	return t.secret, nil
}
