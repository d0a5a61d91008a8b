package util

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/models"
	"github.com/golang-jwt/jwt/v4"
)

// UserFromToken reads the identity claims of a backend-issued token without
// verifying its signature. Verification is the backend's job; this is only
// used to fill in a user record when the OAuth callback did not send one.
func UserFromToken(tokenString string) (models.User, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return models.User{}, fmt.Errorf("malformed token: %w", err)
	}
	if !claims.VerifyExpiresAt(time.Now().Unix(), false) {
		return models.User{}, errors.New("token expired")
	}
	user := models.User{
		ID:    claimString(claims, "id", "_id", "userId", "sub"),
		Email: claimString(claims, "email"),
		Name:  claimString(claims, "name"),
		Role:  models.Role(claimString(claims, "role")),
	}
	if user.Role != "" && !user.Role.Valid() {
		return models.User{}, fmt.Errorf("invalid token: unknown role %q", user.Role)
	}
	if user.ID == "" {
		return models.User{}, errors.New("invalid token: no subject")
	}
	return user, nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := claims[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
