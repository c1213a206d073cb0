package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := tok.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	valid := signToken(t, key, jwt.MapClaims{
		"sub":  "admin-1",
		"role": "admin",
		"iss":  TokenIssuer,
		"exp":  float64(time.Now().Add(time.Hour).Unix()),
	})
	_, err = ValidateToken(valid, &key.PublicKey)
	require.NoError(t, err)

	expired := signToken(t, key, jwt.MapClaims{
		"iss": TokenIssuer,
		"exp": float64(time.Now().Add(-time.Minute).Unix()),
	})
	_, err = ValidateToken(expired, &key.PublicKey)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	wrongIssuer := signToken(t, key, jwt.MapClaims{
		"iss": "SomeoneElse",
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	})
	_, err = ValidateToken(wrongIssuer, &key.PublicKey)
	require.Error(t, err)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	_, err = ValidateToken(valid, &otherKey.PublicKey)
	require.Error(t, err)
}

func TestExtractAccessToken(t *testing.T) {
	// No cookie, no Authorization header.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := extractAccessToken(r)
	require.Error(t, err)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	tok, err := extractAccessToken(r)
	require.NoError(t, err)
	require.Equal(t, "abc123", tok)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "cookie-token"})
	tok, err = extractAccessToken(r)
	require.NoError(t, err)
	require.Equal(t, "cookie-token", tok)
}
