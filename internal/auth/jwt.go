// Package auth contain implementation of local credential handling and
// access token issuing/validation.
package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
)

// JwtIssuer is the issuer claim stamped into every access token.
const JwtIssuer = "JobSearchAPI"

// TokenTTL is how long an access token stays valid after issuing.
const TokenTTL = 7 * 24 * time.Hour

// Claims carried by an access token.
type Claims struct {
	UserID   uint       `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	Name     string     `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates access tokens with an injected
// symmetric key. Constructed once during server wiring so nothing else
// reads the key from the environment.
type TokenIssuer struct {
	key []byte
}

// NewTokenIssuer creates a TokenIssuer around the given HMAC key.
func NewTokenIssuer(key []byte) *TokenIssuer {
	return &TokenIssuer{key: key}
}

// IssuerFromEnv builds a TokenIssuer from the SECRET_KEY environment variable.
func IssuerFromEnv() (*TokenIssuer, error) {
	key := os.Getenv("SECRET_KEY")
	if key == "" {
		return nil, fmt.Errorf("SECRET_KEY is not set")
	}
	return NewTokenIssuer([]byte(key)), nil
}

// IssueToken produces a signed access token carrying the user's
// identity, username, role and display name.
func (ti *TokenIssuer) IssueToken(user model.User) (string, error) {
	now := time.Now()

	generatedAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Name:     user.DisplayName(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JwtIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	})

	signedToken, err := generatedAccessToken.SignedString(ti.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %s", err)
	}

	return signedToken, nil
}

// ValidateToken parses and verifies an encoded token, returning the
// parsed token and its claims.
func (ti *TokenIssuer) ValidateToken(encodedToken string) (*jwt.Token, *Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(encodedToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("invalid token")
		}
		return ti.key, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}
