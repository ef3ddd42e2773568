package utils

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var secretKey = []byte("dev-secret-change-me")

// SetSecret overrides the signing secret; main wires it from JWT_SECRET.
func SetSecret(s string) {
	secretKey = []byte(s)
}

func GenerateToken(clinicID, userID uint, name string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"clinic_id": clinicID,
		"user_id":   userID,
		"name":      name,
	})
	return token.SignedString(secretKey)
}

func VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
