package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mvailles/inkwell/internal/domain"
)

// Claims is the payload carried by a session token.
type Claims struct {
	UserID   string
	Username string
}

// TokenService issues and verifies signed session tokens. It is stateless:
// validity is purely signature plus decode success, with no server-side
// session table and no expiry claim. Session lifetime equals cookie
// lifetime.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token carrying the user's ID and username.
func (s *TokenService) Issue(userID, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Any failure, including a
// missing or malformed token, maps to ErrInvalidToken; verification never
// escapes as a panic or an unhandled fault.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, domain.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, domain.ErrInvalidToken
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, domain.ErrInvalidToken
	}
	username, ok := mapClaims["username"].(string)
	if !ok || username == "" {
		return Claims{}, domain.ErrInvalidToken
	}

	return Claims{UserID: sub, Username: username}, nil
}
