package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	. "attendance-backend/internal/config"
)

var (
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

// Claim for an authenticated employee session
type AuthClaim struct {
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthClaim(employeeID, role string) AuthClaim {
	return AuthClaim{
		EmployeeID:       employeeID,
		Role:             role,
		RegisteredClaims: newRegisteredClaims(Cfg.TokenTTL),
	}
}

func DecodeAuthJWT(tokenString string) (*AuthClaim, error) {
	return decodeJWT(tokenString, &AuthClaim{})
}

// Claim for a single-use password setup link. The jti is recorded in the
// token store at issue time and consumed at redemption, so each link works
// exactly once.
type SetupClaim struct {
	EmployeeID string `json:"employee_id"`
	jwt.RegisteredClaims
}

func NewSetupClaim(employeeID string) SetupClaim {
	return SetupClaim{
		EmployeeID:       employeeID,
		RegisteredClaims: newRegisteredClaims(Cfg.SetupTokenTTL),
	}
}

func DecodeSetupJWT(tokenString string) (*SetupClaim, error) {
	return decodeJWT(tokenString, &SetupClaim{})
}

func newRegisteredClaims(ttlMinutes uint) jwt.RegisteredClaims {
	expiry := time.Now().UTC().Add(time.Duration(ttlMinutes) * time.Minute)
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
}

// Generic JWT token generation function
func GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	JWTSecret := []byte(Cfg.Secret)
	return token.SignedString(JWTSecret)
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (interface{}, error) {
		JWTSecret := []byte(Cfg.Secret)
		return JWTSecret, nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
