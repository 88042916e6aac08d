package authUtils

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"smartroad-be/models"
)

// Claims is what an auth token carries about its user.
type Claims struct {
	UserID string
	Email  string
	Role   models.Role
}

// TokenIssuer signs and verifies HS256 auth tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. now supplies the signing time.
func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

// TTL is how long issued tokens stay valid.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// GenerateToken generates a JWT token for a given user
func (i *TokenIssuer) GenerateToken(user *models.User) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("JWT secret is not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     i.now().Add(i.ttl).Unix(),
	})

	return token.SignedString(i.secret)
}

// ParseToken validates tokenString and returns its claims.
func (i *TokenIssuer) ParseToken(tokenString string) (*Claims, error) {
	// Expiry is checked below against the issuer's clock, not the package default.
	parser := &jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if !mapClaims.VerifyExpiresAt(i.now().Unix(), true) {
		return nil, fmt.Errorf("token is expired")
	}

	userID, _ := mapClaims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("token has no user_id")
	}
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)

	return &Claims{UserID: userID, Email: email, Role: models.Role(role)}, nil
}
