package middleware

import (
	"net/http"
	"strings"

	"hybridmarket/models"

	"gorm.io/gorm"
)

// HTTPError carries a status code alongside the rejection message.
type HTTPError struct {
	StatusCode int
	Message    string
}

// ValidateTraderAPIKey validates a trader's API key and returns the trader.
func ValidateTraderAPIKey(r *http.Request, db *gorm.DB) (*models.Trader, *HTTPError) {
	// Try X-API-Key header first
	apiKey := r.Header.Get("X-API-Key")

	// Fallback to Authorization header
	if apiKey == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer mm_sk_") {
			apiKey = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if apiKey == "" {
		return nil, &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "API key required. Use X-API-Key header or 'Bearer <key>' in Authorization header",
		}
	}

	if !strings.HasPrefix(apiKey, "mm_sk_") {
		return nil, &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Invalid API key format",
		}
	}

	var trader models.Trader
	result := db.Where("api_key = ?", apiKey).First(&trader)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, &HTTPError{
				StatusCode: http.StatusUnauthorized,
				Message:    "Invalid API key",
			}
		}
		return nil, &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Database error validating trader",
		}
	}

	if !trader.IsActive {
		return nil, &HTTPError{
			StatusCode: http.StatusForbidden,
			Message:    "Trader account is deactivated",
		}
	}

	return &trader, nil
}
