package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-desk/internal/config"
)

func newJWT(t *testing.T, secret string) *JWTService {
	t.Helper()
	cfg, err := config.NewJWTConfig(secret, 2)
	require.NoError(t, err)
	return NewJWTService(cfg)
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := newJWT(t, "a-very-secret-signing-key")
	id := uuid.New()

	token, err := svc.GenerateToken(id)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.RecruiterID)
	assert.Equal(t, id.String(), claims.Subject)
	assert.Equal(t, config.AppName, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)

	getter, err := svc.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, getter.GetRecruiterID())
}

func TestJWT_Rejects(t *testing.T) {
	svc := newJWT(t, "a-very-secret-signing-key")

	t.Run("empty", func(t *testing.T) {
		_, err := svc.ValidateToken("")
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
	})

	t.Run("other secret", func(t *testing.T) {
		token, err := newJWT(t, "another-secret-signing-key").GenerateToken(uuid.New())
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		old := newJWT(t, "a-very-secret-signing-key")
		old.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
		token, err := old.GenerateToken(uuid.New())
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := newJWT(t, "a-very-secret-signing-key")
		other.config.Issuer = "someone-else"
		token, err := other.GenerateToken(uuid.New())
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("nil recruiter", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.Nil)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := &Claims{RecruiterID: uuid.New(), RegisteredClaims: jwt.RegisteredClaims{Issuer: config.AppName}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("a-very-secret-signing-key"))
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
