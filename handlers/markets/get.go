package markets

import (
	"encoding/json"
	"net/http"

	"hybridmarket/engine"

	"github.com/gorilla/mux"
)

// GetMarketResponse is the descriptor for one market.
type GetMarketResponse struct {
	Success bool              `json:"success"`
	Market  engine.Descriptor `json:"market"`
}

// GetMarketHandler handles GET /v0/markets/{marketId}. Unknown markets are
// bootstrapped on first reference with the default outcome list.
func GetMarketHandler(reg *engine.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		marketID := mux.Vars(r)["marketId"]
		if marketID == "" {
			http.Error(w, "Market ID is required", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(GetMarketResponse{
			Success: true,
			Market:  reg.Describe(marketID),
		})
	}
}
