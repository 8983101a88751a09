package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const adminTokenTTL = 12 * time.Hour

// AdminClaims is the JWT payload for admin sessions.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueAdminToken signs a short-lived admin session token.
func IssueAdminToken(secret []byte) (string, error) {
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(adminTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAdminToken checks the Authorization bearer token for a valid
// admin session.
func ValidateAdminToken(r *http.Request, secret []byte) *HTTPError {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Admin token required",
		}
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid || claims.Role != "admin" {
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Invalid admin token",
		}
	}
	return nil
}
