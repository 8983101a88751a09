package adminhandlers

import (
	"encoding/json"
	"net/http"

	"hybridmarket/middleware"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// PurgeMarketDataHandler handles DELETE /v0/admin/markets/{marketId}/data.
// It removes the persisted rows for a market; the engine's live registry
// entry is untouched, since engine markets are never deleted.
func PurgeMarketDataHandler(db *gorm.DB, jwtSecret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if httpErr := middleware.ValidateAdminToken(r, jwtSecret); httpErr != nil {
			http.Error(w, httpErr.Message, httpErr.StatusCode)
			return
		}

		marketID := mux.Vars(r)["marketId"]
		if marketID == "" {
			http.Error(w, "Market ID is required", http.StatusBadRequest)
			return
		}

		// Delete associated rows first
		db.Exec("DELETE FROM trade_records WHERE market_id = ?", marketID)
		db.Exec("DELETE FROM positions WHERE market_id = ?", marketID)
		db.Exec("DELETE FROM amm_snapshots WHERE market_id = ?", marketID)
		db.Exec("DELETE FROM analytics_buckets WHERE market_id = ?", marketID)

		result := db.Exec("DELETE FROM markets WHERE market_id = ?", marketID)
		if result.Error != nil {
			http.Error(w, "Failed to purge market data", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"purged":  marketID,
		})
	}
}

// ResetAnalyticsHandler handles POST /v0/admin/reset-analytics.
// Clears the aggregated analytics series; raw trade records stay.
func ResetAnalyticsHandler(db *gorm.DB, jwtSecret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if httpErr := middleware.ValidateAdminToken(r, jwtSecret); httpErr != nil {
			http.Error(w, httpErr.Message, httpErr.StatusCode)
			return
		}

		result := db.Exec("DELETE FROM analytics_buckets")
		if result.Error != nil {
			http.Error(w, "Failed to reset analytics", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":      true,
			"message":      "Analytics data cleared",
			"rowsAffected": result.RowsAffected,
		})
	}
}

// DeactivateTraderHandler handles POST /v0/admin/traders/{name}/deactivate
func DeactivateTraderHandler(db *gorm.DB, jwtSecret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if httpErr := middleware.ValidateAdminToken(r, jwtSecret); httpErr != nil {
			http.Error(w, httpErr.Message, httpErr.StatusCode)
			return
		}

		name := mux.Vars(r)["name"]
		result := db.Exec("UPDATE traders SET is_active = ? WHERE name = ?", false, name)
		if result.Error != nil {
			http.Error(w, "Failed to deactivate trader", http.StatusInternalServerError)
			return
		}
		if result.RowsAffected == 0 {
			http.Error(w, "Trader not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"deactivated": name,
		})
	}
}
