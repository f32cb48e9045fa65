// Package jwt firma y valida el token de sesión (HS256): usuario, empresa y rol.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

var (
	errNoSecret    = errors.New("jwt: secret vacío")
	errUnknownRole = errors.New("jwt: rol desconocido")
)

// Claims del token. Role viaja en el token para que RequireRole no consulte la DB;
// un token sin rol se acepta aquí y lo rechaza el middleware (MISSING_ROLE).
type Claims struct {
	jwt.RegisteredClaims
	UserID    string      `json:"user_id"`
	CompanyID string      `json:"company_id"`
	Role      entity.Role `json:"role"`
}

// Generate firma un token para el usuario de la empresa con vida de expMinutes.
func Generate(secret, userID, companyID string, role entity.Role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errNoSecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, vencimiento y rol. Solo se aceptan tokens HMAC.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errNoSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	if claims.Role != "" && !claims.Role.Valid() {
		return nil, errUnknownRole
	}
	return claims, nil
}
