package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"github.com/codingburgas/job-tracking-DKGeorgiev21/internal/model"
)

func TestIssueAndValidateToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))

	user := model.User{
		ID:        42,
		FirstName: "Alice",
		LastName:  "Petrova",
		Username:  "alice",
		Role:      model.RoleUser,
	}

	signed, err := issuer.IssueToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)

	token, claims, err := issuer.ValidateToken(signed)
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "Alice Petrova", claims.Name)
	assert.Equal(t, JwtIssuer, claims.Issuer)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), claims.Subject)
	assert.NotEmpty(t, claims.ID, "jti should be set")

	// Expiry lands 7 days out, give or take test runtime.
	expectedExpiry := time.Now().Add(TokenTTL)
	assert.WithinDuration(t, expectedExpiry, claims.ExpiresAt.Time, time.Minute)
}

func TestValidateTokenWrongKey(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))
	other := NewTokenIssuer([]byte("other-secret"))

	signed, err := issuer.IssueToken(model.User{ID: 1, Username: "bob"})
	assert.NoError(t, err)

	_, _, err = other.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	key := []byte("test-secret")
	issuer := NewTokenIssuer(key)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   1,
		Username: "bob",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JwtIssuer,
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString(key)
	assert.NoError(t, err)

	_, _, err = issuer.ValidateToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateTokenRejectsNonHMAC(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, _, err = issuer.ValidateToken(signed)
	assert.Error(t, err)
}
