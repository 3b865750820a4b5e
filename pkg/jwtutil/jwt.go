package jwtutil

import (
	"time"

	"commerce-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signingKey      []byte
	expirationHours int
)

// UserClaims represents the JWT claims for authenticated requests
type UserClaims struct {
	Email          string `json:"email"`
	UserID         uint   `json:"user_id"`
	TenantID       *uint  `json:"tenant_id,omitempty"`        // Tenant the request operates on
	TenantName     string `json:"tenant_name,omitempty"`      // Tenant name for convenience
	BuyerProfileID *uint  `json:"buyer_profile_id,omitempty"` // Present for buyer tokens
	Role           string `json:"role,omitempty"`             // User's role in the current tenant
	jwt.RegisteredClaims
}

// Initialize configures the JWT utility from application config
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expirationHours = cfg.ExpirationHours
	if expirationHours <= 0 {
		expirationHours = 24
	}
}

// GenerateToken signs a token for the given claims
func GenerateToken(claims *UserClaims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(expirationHours) * time.Hour))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// ExtractTenantID extracts the tenant ID from a token string
func ExtractTenantID(tokenString string) (*uint, error) {
	claims, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims.TenantID, nil
}
