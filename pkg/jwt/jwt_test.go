package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookpos/pkg/errors"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateToken(42, "Brenda B")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Brenda B", claims.Username)
}

func TestParseInvalidToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("乱码Token", func(t *testing.T) {
		_, err := m.ParseToken("not-a-jwt")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
	})

	t.Run("密钥不匹配", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		token, err := other.GenerateToken(1, "x")
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
	})

	t.Run("过期Token", func(t *testing.T) {
		expired := NewManager("test-secret", -time.Minute)
		token, err := expired.GenerateToken(1, "x")
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
	})
}
