package lib

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(id, "wait_staff", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Sub)
	assert.Equal(t, "wait_staff", claims.Role)
	assert.True(t, claims.Exp.After(claims.Iat))
}

func TestParseTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "manager", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(uuid.New(), "manager", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractClaims(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(id, "customer_tablet", testSecret, time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = ExtractClaims(r, testSecret)
	assert.ErrorIs(t, err, ErrMissingToken)

	r.Header.Set("Authorization", "Bearer "+token)
	claims, err := ExtractClaims(r, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Sub)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	_, err = ExtractClaims(r, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	r = httptest.NewRequest(http.MethodGet, "/events", nil)
	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: token})
	claims, err = ExtractClaims(r, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "customer_tablet", claims.Role)
}
