package traders

import (
	"encoding/json"
	"net/http"
	"strings"

	"hybridmarket/models"

	"gorm.io/gorm"
)

// RegisterRequest is the request body for trader registration.
type RegisterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RegisterResponse is returned after successful registration.
type RegisterResponse struct {
	Trader    models.TraderPublic `json:"trader"`
	APIKey    string              `json:"apiKey"`
	Important string              `json:"important"`
}

// RegisterHandler handles POST /v0/traders/register
func RegisterHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		// Validate name
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "Trader name is required", http.StatusBadRequest)
			return
		}
		if len(req.Name) < 3 || len(req.Name) > 50 {
			http.Error(w, "Trader name must be 3-50 characters", http.StatusBadRequest)
			return
		}

		// Check if name already exists
		var existing models.Trader
		if db.Where("name = ?", req.Name).First(&existing).Error == nil {
			http.Error(w, "Trader name already taken", http.StatusConflict)
			return
		}

		apiKey, err := models.GenerateAPIKey()
		if err != nil {
			http.Error(w, "Failed to generate API key", http.StatusInternalServerError)
			return
		}

		trader := models.Trader{
			Name:        req.Name,
			Description: req.Description,
			APIKey:      apiKey,
			IsActive:    true,
		}
		if result := db.Create(&trader); result.Error != nil {
			http.Error(w, "Failed to create trader", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(RegisterResponse{
			Trader:    trader.ToPublic(),
			APIKey:    apiKey,
			Important: "Store this API key now. It cannot be retrieved again.",
		})
	}
}
