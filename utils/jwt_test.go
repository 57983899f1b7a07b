// file: utils/jwt_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ByteList/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{
		ID:       42,
		Username: "alice",
		Role:     models.RoleAdmin,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseToken_Invalid(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateShareSlug(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		slug := GenerateShareSlug()
		assert.Len(t, slug, 17) // 4 + "-" + 12
		assert.Contains(t, slug, "-")
		assert.Equal(t, strings.ToLower(slug), slug)
		assert.False(t, seen[slug], "slug 不应重复: %s", slug)
		seen[slug] = true
	}
}
