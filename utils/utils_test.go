package utils

import (
	"testing"
	"time"

	"github.com/kvbsystems/kvbbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "solarmax-3000", GenerateSlug("SolarMax 3000"))
	assert.Equal(t, "cafe-du-monde", GenerateSlug("Café du Monde"))
	assert.Equal(t, "a-b-c", GenerateSlug("  a@@b!!c  "))
	assert.Equal(t, "", GenerateSlug("!!!"))
}

func TestStringsToObjectIDs(t *testing.T) {
	a, b := bson.NewObjectID(), bson.NewObjectID()

	ids, err := StringsToObjectIDs([]string{a.Hex(), b.Hex()})
	require.NoError(t, err)
	assert.Equal(t, []bson.ObjectID{a, b}, ids)

	_, err = StringsToObjectIDs([]string{a.Hex(), "nope"})
	assert.Error(t, err)

	ids, err = StringsToObjectIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestParseBoolQuery(t *testing.T) {
	b, err := ParseBoolQuery("true")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	b, err = ParseBoolQuery("")
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = ParseBoolQuery("maybe")
	assert.Error(t, err)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("7", 3))
	assert.Equal(t, 3, ParseIntDefault("", 3))
	assert.Equal(t, 3, ParseIntDefault("seven", 3))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := bson.NewObjectID().Hex()
	token, err := GenerateAccessToken(userID, "asha@example.com", string(models.RoleSales), time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "SALES", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken(bson.NewObjectID().Hex(), "a@b.c", string(models.RoleAdmin), time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken(bson.NewObjectID().Hex(), "a@b.c", string(models.RoleAdmin), -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestAccessCookieName(t *testing.T) {
	assert.Equal(t, "adminToken", AccessCookieName(models.RoleAdmin))
	assert.Equal(t, "salesToken", AccessCookieName(models.RoleSales))
	assert.Equal(t, "workerToken", AccessCookieName(models.RoleWorker))
	assert.Equal(t, "customerToken", AccessCookieName(models.RoleCustomer))
	assert.Equal(t, "", AccessCookieName(models.Role("OTHER")))
}

func TestTTLDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "")
	assert.Equal(t, 15*time.Minute, AccessTTL())
	assert.Equal(t, 14*24*time.Hour, RefreshTTL())

	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	assert.Equal(t, 30*time.Minute, AccessTTL())
}

func TestMergeImageUrlsArrays(t *testing.T) {
	old := []string{"a", "b", "c"}
	merged := MergeImageUrlsArrays(old, []string{"b"}, []string{"d", "a"})
	assert.Equal(t, []string{"a", "c", "d"}, merged)

	merged = MergeImageUrlsArrays(nil, nil, []string{"x"})
	assert.Equal(t, []string{"x"}, merged)
}

func TestGetDefaultQueryLimits(t *testing.T) {
	t.Setenv("READ_QUERY_MAX_LIMIT", "")
	t.Setenv("DEFAULT_READ_QUERY_LIMIT", "")
	maxLimit, defaultLimit := GetDefaultQueryLimits()
	assert.Equal(t, 100, maxLimit)
	assert.Equal(t, 20, defaultLimit)

	t.Setenv("READ_QUERY_MAX_LIMIT", "50")
	t.Setenv("DEFAULT_READ_QUERY_LIMIT", "10")
	maxLimit, defaultLimit = GetDefaultQueryLimits()
	assert.Equal(t, 50, maxLimit)
	assert.Equal(t, 10, defaultLimit)
}
