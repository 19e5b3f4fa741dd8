package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-todo/backend/internal/models"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateToken(&models.User{ID: 7, Email: "a@example.com", Name: "A"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "A", claims.Name)
}

func TestJWTService_Rejects(t *testing.T) {
	svc, err := NewJWTService("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewJWTService("other-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.GenerateToken(&models.User{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrAuthenticationRequired)

	token, err = svc.GenerateToken(&models.User{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrAuthenticationRequired)

	_, err = NewJWTService("", time.Hour)
	assert.Error(t, err)
}
