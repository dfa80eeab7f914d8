package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "hotel-housekeeping"

// Staff roles carried in access tokens.
const (
	RoleFrontDesk    = "front_desk"
	RoleHousekeeping = "housekeeping"
	RoleManager      = "manager"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type StaffClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func ValidRole(role string) bool {
	switch role {
	case RoleFrontDesk, RoleHousekeeping, RoleManager:
		return true
	}
	return false
}

// GenerateToken signs an HS256 token for a staff member.
func GenerateToken(secret []byte, subject, role string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token secret is empty")
	}
	if !ValidRole(role) {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := time.Now()
	claims := &StaffClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies signature, issuer and expiry and returns the staff claims.
func ParseToken(secret []byte, tokenString string) (*StaffClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*StaffClaims)
	if !ok || !ValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
