package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"messenger-service/internal/models"
)

// ErrInvalidToken covers malformed, forged and expired tokens alike; callers
// only need to know the credential is unusable.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload carried by every session token.
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier signs and verifies session tokens with an HS256 shared secret.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

// NewVerifier constructs a Verifier.
func NewVerifier(secret string, ttl time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), ttl: ttl}
}

// Sign mints a token for the user.
func (v *Verifier) Sign(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
			Issuer:    "messenger-service",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify parses the token, checks signature and expiry, and returns the
// identity claims. Any failure maps to ErrInvalidToken.
func (v *Verifier) Verify(token string) (models.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return models.Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 {
		return models.Identity{}, ErrInvalidToken
	}
	return models.Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}
