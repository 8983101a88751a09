package orders

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

// PlaceOrderRequest is the request body for a limit order.
type PlaceOrderRequest struct {
	Side  string `json:"side" validate:"required,oneof=buy sell"`
	Price string `json:"price" validate:"required"`
	Qty   string `json:"qty" validate:"required"`
}

// PlaceOrderResponse is returned after a placement.
type PlaceOrderResponse struct {
	Success bool               `json:"success"`
	Result  engine.PlaceResult `json:"result"`
}

// PlaceOrderHandler handles POST /v0/markets/{marketId}/orders
func PlaceOrderHandler(reg *engine.Registry, db *gorm.DB) http.HandlerFunc {
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

		var req PlaceOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "Invalid order: side must be buy or sell, price and qty required", http.StatusBadRequest)
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil || !price.IsPositive() {
			http.Error(w, "Price must be a positive decimal", http.StatusBadRequest)
			return
		}
		qty, err := decimal.NewFromString(req.Qty)
		if err != nil || !qty.IsPositive() {
			http.Error(w, "Qty must be a positive decimal", http.StatusBadRequest)
			return
		}

		result, err := reg.PlaceOrder(marketID, trader.Name, engine.Side(req.Side), price, qty)
		if err != nil {
			writePlaceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(PlaceOrderResponse{Success: true, Result: result})
	}
}

func writePlaceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrBookNotLive):
		http.Error(w, "Order book below minimum liquidity; order rests but will not match yet", http.StatusUnprocessableEntity)
	case errors.Is(err, engine.ErrInvalidSide):
		http.Error(w, "Side must be buy or sell", http.StatusBadRequest)
	case errors.Is(err, engine.ErrInvalidPrice):
		http.Error(w, "Price must be positive", http.StatusBadRequest)
	case errors.Is(err, engine.ErrInvalidQuantity):
		http.Error(w, "Qty must be positive", http.StatusBadRequest)
	default:
		http.Error(w, "Order placement failed", http.StatusInternalServerError)
	}
}
