package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "admin", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateToken(uuid.New(), "admin", "admin")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsForeignSecretAndGarbage(t *testing.T) {
	issuerA := NewManager("secret-a", time.Hour)
	verifierB := NewManager("secret-b", time.Hour)

	token, err := issuerA.GenerateToken(uuid.New(), "bob", "user")
	require.NoError(t, err)

	_, err = verifierB.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifierB.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifierB.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestManager_RejectsNoneAlgorithm(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	claims := &Claims{
		UserID:   uuid.New(),
		Username: "mallory",
		Role:     "admin",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    issuer,
		},
	}
	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
