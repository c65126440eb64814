package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenTTL is the session token lifetime. Short-lived; no refresh
// rotation.
const TokenTTL = 2 * time.Hour

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type UserClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Ministry string `json:"ministry"`
	jwt.RegisteredClaims
}

// GenerateToken mints a signed session token embedding the user id. The
// claims are a pointer back to the account, not a snapshot of its
// authority: permissions are always re-resolved from the store.
func GenerateToken(secret []byte, userID primitive.ObjectID, username, ministry string) (string, error) {
	claims := UserClaims{
		UserID:   userID.Hex(),
		Username: username,
		Ministry: ministry,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken verifies signature and expiry, distinguishing expired
// tokens from otherwise invalid ones.
func ValidateToken(secret []byte, tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
