package trade

import (
	"encoding/json"
	"errors"
	"net/http"

	"hybridmarket/engine"
	"hybridmarket/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

// BuyRequest is the request body for an AMM share purchase.
type BuyRequest struct {
	Outcome int    `json:"outcome" validate:"gte=0"`
	Shares  string `json:"shares" validate:"required"`
}

// BuyResponse is returned after a committed buy.
type BuyResponse struct {
	Success bool             `json:"success"`
	Result  engine.BuyResult `json:"result"`
}

// BuyHandler handles POST /v0/markets/{marketId}/buy
func BuyHandler(reg *engine.Registry, db *gorm.DB) http.HandlerFunc {
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

		marketID := mux.Vars(r)["marketId"]
		if marketID == "" {
			http.Error(w, "Market ID is required", http.StatusBadRequest)
			return
		}

		var req BuyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid buy request: "+err.Error(), http.StatusBadRequest)
			return
		}

		shares, err := decimal.NewFromString(req.Shares)
		if err != nil || !shares.IsPositive() {
			http.Error(w, "Shares must be a positive decimal", http.StatusBadRequest)
			return
		}

		result, err := reg.Buy(marketID, trader.Name, req.Outcome, shares)
		if err != nil {
			writeBuyError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(BuyResponse{Success: true, Result: result})
	}
}

// writeBuyError maps engine rejections onto HTTP statuses. Every rejection
// leaves core state untouched, so clients can retry with smaller size.
func writeBuyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrWrongMode):
		http.Error(w, "Market is in CDA mode; use the order book", http.StatusConflict)
	case errors.Is(err, engine.ErrPriceImpactExceeded):
		http.Error(w, "Trade exceeds the price impact limit; reduce size", http.StatusUnprocessableEntity)
	case errors.Is(err, engine.ErrInsufficientCollateral):
		http.Error(w, "Insufficient collateral reserve for this trade", http.StatusUnprocessableEntity)
	case errors.Is(err, engine.ErrInvalidOutcome):
		http.Error(w, "Outcome index out of range", http.StatusBadRequest)
	case errors.Is(err, engine.ErrInvalidQuantity):
		http.Error(w, "Shares must be positive", http.StatusBadRequest)
	default:
		http.Error(w, "Trade failed", http.StatusInternalServerError)
	}
}
