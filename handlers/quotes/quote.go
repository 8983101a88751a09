package quotes

import (
	"encoding/json"
	"net/http"

	"hybridmarket/engine"

	"github.com/gorilla/mux"
)

// QuoteResponse is the mode-dependent quote for one market.
type QuoteResponse struct {
	Success bool               `json:"success"`
	Quote   engine.QuoteResult `json:"quote"`
}

// QuoteHandler handles GET /v0/markets/{marketId}/quote. Quoting is what
// re-evaluates the market's pricing mode from trader participation.
func QuoteHandler(reg *engine.Registry) http.HandlerFunc {
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

		quote, err := reg.Quote(marketID)
		if err != nil {
			http.Error(w, "Failed to compute quote", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(QuoteResponse{Success: true, Quote: quote})
	}
}
