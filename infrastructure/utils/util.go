package utils

import (
	"time"

	"autopost-dashboard/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// GenerateToken signs payload as an HS256 bearer token.
func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// DayKey formats t as the UTC calendar day counters are bucketed by.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
