package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Fresh Vegetables":  "fresh-vegetables",
		"Café & Thé":        "cafe-the",
		"  Dairy  Products ": "dairy-products",
		"100% Organic!":     "100-organic",
	}
	for input, want := range cases {
		assert.Equal(t, want, GenerateSlug(input), "slug of %q", input)
	}
}

func TestCartKeyRoundTrip(t *testing.T) {
	key := CartKey("64a000000000000000000001", 2)
	assert.Equal(t, "64a000000000000000000001|2", key)

	id, idx, ok := SplitCartKey(key)
	require.True(t, ok)
	assert.Equal(t, "64a000000000000000000001", id)
	assert.Equal(t, 2, idx)
}

func TestSplitCartKeyMalformed(t *testing.T) {
	for _, key := range []string{"", "noseparator", "|0", "abc|", "abc|x", "abc|-1"} {
		_, _, ok := SplitCartKey(key)
		assert.False(t, ok, "key %q must not parse", key)
	}
}

func TestPruneCart(t *testing.T) {
	pruned := PruneCart(map[string]int{
		"a|0": 2,
		"b|1": 0,
		"c|0": -5,
	})
	assert.Equal(t, map[string]int{"a|0": 2}, pruned)
}

func TestTruncateCents(t *testing.T) {
	assert.Equal(t, 102.0, TruncateCents(102.0))
	assert.Equal(t, 10.99, TruncateCents(10.999))
	assert.Equal(t, 0.1, TruncateCents(0.109))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user123", "u@example.com", "USER", "test_secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test_secret")
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("user123", "u@example.com", "USER", "test_secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other_secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("user123", "u@example.com", "USER", "test_secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test_secret")
	assert.Error(t, err)
}

func TestParseBoolQuery(t *testing.T) {
	b, err := ParseBoolQuery("")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = ParseBoolQuery("true")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	b, err = ParseBoolQuery("false")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.False(t, *b)

	_, err = ParseBoolQuery("maybe")
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "s3cret"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}
