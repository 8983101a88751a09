package markets

import (
	"encoding/json"
	"net/http"

	"hybridmarket/engine"
)

// ListMarketsResponse is the listing of all registered markets.
type ListMarketsResponse struct {
	Success bool                `json:"success"`
	Markets []engine.MarketInfo `json:"markets"`
	Count   int                 `json:"count"`
}

// ListMarketsHandler handles GET /v0/markets
func ListMarketsHandler(reg *engine.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		infos := reg.List()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ListMarketsResponse{
			Success: true,
			Markets: infos,
			Count:   len(infos),
		})
	}
}
