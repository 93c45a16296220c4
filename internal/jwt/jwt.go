package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KretovDmitry/order-management-service/internal/domain/entities"
	"github.com/KretovDmitry/order-management-service/internal/domain/entities/user"
	"github.com/golang-jwt/jwt/v4"
)

const bearerPrefix = "Bearer "

// BuildString creates a signed HS256 token for the given user ID
// valid for tokenExp.
func BuildString(userID user.ID, secret string, tokenExp time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, entities.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// WithBearer prefixes the token with the Bearer scheme.
func WithBearer(token string) string {
	return bearerPrefix + token
}

// GetUserID extracts the user ID from a token. The Bearer prefix is optional.
func GetUserID(tokenString, secret string) (user.ID, error) {
	claims := new(entities.AuthClaims)

	tokenString = strings.TrimPrefix(tokenString, bearerPrefix)
	if tokenString == "" {
		return 0, errors.New("empty token")
	}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method: %v", token.Header["alg"],
				)
			}
			return []byte(secret), nil
		})
	if err != nil {
		return 0, fmt.Errorf("error parsing token: %w", err)
	}

	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	return claims.UserID, nil
}
