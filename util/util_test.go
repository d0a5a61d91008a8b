package util

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "DEV")
	t.Setenv("API_URL", "http://backend.test")
	t.Setenv("REMEMBER_FOR", "48h")

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "http://backend.test", cfg.APIURL)
	assert.Equal(t, 48*time.Hour, cfg.RememberFor)
	assert.Equal(t, 24*time.Hour, cfg.SessionIdle)
	assert.Equal(t, "3000", cfg.Port)
}

func TestLoadConfigFromSecret(t *testing.T) {
	t.Setenv("ENV", "PROD")
	t.Setenv("SECRET_NAME", "projects/p/secrets/front/versions/1")
	t.Setenv("PORT", "8080")
	t.Cleanup(func() { os.Unsetenv("REDIS_ADDR") })

	orig := fetchSecret
	t.Cleanup(func() { fetchSecret = orig })
	var asked string
	fetchSecret = func(_ context.Context, name string) ([]byte, error) {
		asked = name
		return []byte("PORT=9999\nREDIS_ADDR=redis:6379\n"), nil
	}

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "projects/p/secrets/front/versions/1", asked)
	assert.Equal(t, "8080", cfg.Port, "existing environment wins over the secret")
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.False(t, cfg.IsDev())
}

func TestLoadConfigSecretFailure(t *testing.T) {
	t.Setenv("ENV", "PROD")
	t.Setenv("SECRET_NAME", "projects/p/secrets/front/versions/1")
	orig := fetchSecret
	t.Cleanup(func() { fetchSecret = orig })
	fetchSecret = func(context.Context, string) ([]byte, error) {
		return nil, errors.New("permission denied")
	}

	_, err := LoadConfig(context.Background())
	assert.Error(t, err)
}

func TestUserFromToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "u-42",
		"email": "lecturer@example.com",
		"role":  "Lecture",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("not-our-secret"))
	require.NoError(t, err)

	user, err := UserFromToken("Bearer " + signed)
	require.NoError(t, err)
	assert.Equal(t, "u-42", user.ID)
	assert.Equal(t, "lecturer@example.com", user.Email)
	assert.Equal(t, models.RoleLecture, user.Role)
}

func TestUserFromTokenRejectsGarbage(t *testing.T) {
	_, err := UserFromToken("not-a-token")
	assert.Error(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"})
	signed, err := token.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = UserFromToken(signed)
	assert.Error(t, err)
}

func TestUserFromTokenRejectsExpired(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = UserFromToken(signed)
	assert.Error(t, err)
}

func TestUserFromTokenRejectsUnknownRole(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u-42", "role": "Root"})
	signed, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = UserFromToken(signed)
	assert.Error(t, err)
}
