package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("test_password")
	require.NoError(t, err)

	assert.NotEqual(t, "test_password", hash)
	assert.True(t, CheckPasswordHash("test_password", hash))
	assert.False(t, CheckPasswordHash("wrong_password", hash))
	assert.False(t, CheckPasswordHash("test_password", ""))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 80))
	require.Error(t, err)
	assert.True(t, IsPasswordTooLong(err))
}

func TestSessionManager_RoundTrip(t *testing.T) {
	m := NewSessionManager([]byte("secret"), time.Hour, "taxiservice")

	token, err := m.Issue(42, "test_user", true)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)

	id, err := claims.DriverID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "test_user", claims.Username)
	assert.True(t, claims.IsStaff)
}

func TestSessionManager_Expired(t *testing.T) {
	m := NewSessionManager([]byte("secret"), time.Minute, "taxiservice")
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(1, "old", false)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_WrongKey(t *testing.T) {
	token, err := NewSessionManager([]byte("one"), time.Hour, "taxiservice").Issue(1, "a", false)
	require.NoError(t, err)

	_, err = NewSessionManager([]byte("two"), time.Hour, "taxiservice").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_Garbage(t *testing.T) {
	m := NewSessionManager([]byte("secret"), time.Hour, "taxiservice")
	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
