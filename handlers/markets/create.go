package markets

import (
	"encoding/json"
	"errors"
	"net/http"

	"hybridmarket/engine"
	"hybridmarket/middleware"
	"hybridmarket/models"
	"hybridmarket/security"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const maxTitleLength = 160

var validate = validator.New()

// CreateMarketRequest is the request body for creating a market.
type CreateMarketRequest struct {
	MarketID    string   `json:"marketId" validate:"required,min=1,max=64"`
	Title       string   `json:"title" validate:"required,min=1,max=160"`
	Description string   `json:"description" validate:"max=2000"`
	Outcomes    []string `json:"outcomes" validate:"required,min=2,dive,required,max=40"`
}

// CreateMarketResponse is returned after creating a market.
type CreateMarketResponse struct {
	Success bool                `json:"success"`
	Market  models.MarketPublic `json:"market"`
}

// CreateMarketHandler handles POST /v0/markets
func CreateMarketHandler(reg *engine.Registry, db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		trader, httpErr := middleware.ValidateTraderAPIKey(r, db)
		if httpErr != nil {
			http.Error(w, httpErr.Message, httpErr.StatusCode)
			return
		}

		var req CreateMarketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid market data: "+err.Error(), http.StatusBadRequest)
			return
		}

		securityService := security.NewSecurityService()
		sanitized, err := securityService.ValidateAndSanitizeMarketInput(security.MarketInput{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			http.Error(w, "Invalid market data: "+err.Error(), http.StatusBadRequest)
			return
		}

		if _, err := reg.Create(req.MarketID, req.Outcomes); err != nil {
			switch {
			case errors.Is(err, engine.ErrMarketExists):
				http.Error(w, "Market already exists", http.StatusConflict)
			case errors.Is(err, engine.ErrInvalidOutcomeSet):
				http.Error(w, "Market requires at least 2 outcomes", http.StatusBadRequest)
			default:
				http.Error(w, "Error creating market", http.StatusInternalServerError)
			}
			return
		}

		newMarket := models.Market{
			MarketID:    req.MarketID,
			Title:       sanitized.Title,
			Description: sanitized.Description,
			Mode:        string(engine.ModeAMM),
			CreatorName: trader.Name,
		}
		if err := newMarket.SetOutcomeLabels(req.Outcomes); err != nil {
			http.Error(w, "Error encoding outcomes", http.StatusInternalServerError)
			return
		}

		// The engine is authoritative; a failed row write is reported but
		// does not unwind the registered market.
		if result := db.Create(&newMarket); result.Error != nil {
			http.Error(w, "Market registered but not persisted: "+result.Error.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreateMarketResponse{
			Success: true,
			Market:  newMarket.ToPublic(),
		})
	}
}
