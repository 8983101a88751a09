package analytics

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"hybridmarket/engine"
	"hybridmarket/models"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketRanking is one entry of the volume leaderboard.
type MarketRanking struct {
	Rank          int             `json:"rank"`
	MarketID      string          `json:"marketId"`
	Mode          engine.Mode     `json:"mode"`
	AMMVolume     decimal.Decimal `json:"ammVolume"`
	AMMTrades     int64           `json:"ammTrades"`
	BookTrades    int             `json:"bookTrades"`
	ActiveTraders int             `json:"activeTraders"`
}

// SummaryResponse ranks markets by AMM volume, then book activity.
type SummaryResponse struct {
	Success  bool            `json:"success"`
	Rankings []MarketRanking `json:"rankings"`
	Total    int             `json:"total"`
}

// SummaryHandler handles GET /v0/analytics/markets
func SummaryHandler(reg *engine.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		stats := reg.Stats()
		sort.Slice(stats, func(i, j int) bool {
			if !stats[i].AMMVolume.Equal(stats[j].AMMVolume) {
				return stats[i].AMMVolume.GreaterThan(stats[j].AMMVolume)
			}
			if stats[i].BookTrades != stats[j].BookTrades {
				return stats[i].BookTrades > stats[j].BookTrades
			}
			return stats[i].ID < stats[j].ID
		})

		total := len(stats)
		if len(stats) > limit {
			stats = stats[:limit]
		}

		rankings := make([]MarketRanking, len(stats))
		for i, s := range stats {
			rankings[i] = MarketRanking{
				Rank:          i + 1,
				MarketID:      s.ID,
				Mode:          s.Mode,
				AMMVolume:     s.AMMVolume,
				AMMTrades:     s.AMMTrades,
				BookTrades:    s.BookTrades,
				ActiveTraders: s.ActiveTraders,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SummaryResponse{
			Success:  true,
			Rankings: rankings,
			Total:    total,
		})
	}
}

// HistoryResponse is the persisted analytics series for one market.
type HistoryResponse struct {
	Success bool                     `json:"success"`
	Buckets []models.AnalyticsBucket `json:"buckets"`
	Count   int                      `json:"count"`
}

// HistoryHandler handles GET /v0/analytics/markets/{marketId}
func HistoryHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		marketID := mux.Vars(r)["marketId"]

		var buckets []models.AnalyticsBucket
		if result := db.Where("market_id = ?", marketID).
			Order("captured_at DESC").Limit(100).Find(&buckets); result.Error != nil {
			http.Error(w, "Failed to fetch analytics", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HistoryResponse{
			Success: true,
			Buckets: buckets,
			Count:   len(buckets),
		})
	}
}
