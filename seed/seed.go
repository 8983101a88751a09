// Package seed fills a development database and engine with demo data.
package seed

import (
	"fmt"
	"strings"

	"hybridmarket/engine"
	"hybridmarket/models"

	"github.com/brianvoe/gofakeit"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Demo creates a handful of traders and markets and runs a few small AMM
// buys so quotes and analytics have something to show.
func Demo(db *gorm.DB, reg *engine.Registry) error {
	traders := make([]models.Trader, 0, 8)
	for i := 0; i < 8; i++ {
		apiKey, err := models.GenerateAPIKey()
		if err != nil {
			return err
		}
		t := models.Trader{
			Name:        fmt.Sprintf("%s-%d", strings.ToLower(gofakeit.Username()), i),
			Description: gofakeit.HipsterSentence(6),
			APIKey:      apiKey,
			IsActive:    true,
		}
		if err := db.Create(&t).Error; err != nil {
			return err
		}
		traders = append(traders, t)
	}

	questions := []struct {
		id       string
		outcomes []string
	}{
		{"demo-btc-100k", []string{"YES", "NO"}},
		{"demo-rate-cut", []string{"YES", "NO"}},
		{"demo-election", []string{"CANDIDATE-A", "CANDIDATE-B", "OTHER"}},
	}

	for _, q := range questions {
		if _, err := reg.Create(q.id, q.outcomes); err != nil {
			return err
		}

		m := models.Market{
			MarketID:    q.id,
			Title:       gofakeit.HipsterSentence(8) + "?",
			Description: gofakeit.HipsterParagraph(1, 2, 12, " "),
			Mode:        string(engine.ModeAMM),
			CreatorName: traders[0].Name,
		}
		if err := m.SetOutcomeLabels(q.outcomes); err != nil {
			return err
		}
		if err := db.Create(&m).Error; err != nil {
			return err
		}

		// A few tiny buys keep each buy inside the price impact limit.
		for i, t := range traders {
			outcome := i % len(q.outcomes)
			if _, err := reg.Buy(q.id, t.Name, outcome, decimal.RequireFromString("0.25")); err != nil {
				return err
			}
		}
	}
	return nil
}
