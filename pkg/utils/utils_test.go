package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateSessionToken("sess-1", time.Hour)
	require.NoError(t, err)

	id, err := ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
}

func TestSessionToken_Rejections(t *testing.T) {
	SetSecret("test-secret")
	expired, err := GenerateSessionToken("sess-1", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateSessionToken(expired)
	assert.Error(t, err)

	SetSecret("other-secret")
	valid, err := GenerateSessionToken("sess-1", time.Hour)
	require.NoError(t, err)
	SetSecret("test-secret")
	_, err = ValidateSessionToken(valid)
	assert.Error(t, err)
}

func TestExtractSessionID(t *testing.T) {
	SetSecret("test-secret")
	token, err := GenerateSessionToken("sess-9", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	id, err := ExtractSessionID(r)
	require.NoError(t, err)
	assert.Equal(t, "sess-9", id)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	id, err = ExtractSessionID(r)
	require.NoError(t, err)
	assert.Equal(t, "sess-9", id)

	_, err = ExtractSessionID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "79123456789", DigitsOnly("+7 (912) 345-67-89"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("x", 1))
}
