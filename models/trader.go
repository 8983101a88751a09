package models

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trader is a market participant identified by an API key. The engine only
// sees the trader's name; everything else lives here.
type Trader struct {
	gorm.Model
	ID          int64  `json:"id" gorm:"primary_key"`
	Name        string `json:"name" gorm:"unique;not null;size:50"`
	Description string `json:"description" gorm:"size:500"`

	// Authentication
	APIKey string `json:"apiKey,omitempty" gorm:"unique;not null"`

	// Activity stats, updated by the persistence sink.
	TradeCount int64           `json:"tradeCount" gorm:"default:0"`
	TotalSpent decimal.Decimal `json:"totalSpent" gorm:"type:numeric;default:0"`

	// Status
	IsActive bool `json:"isActive" gorm:"default:true"`
}

// TraderPublic is the public-facing trader profile.
type TraderPublic struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TradeCount  int64           `json:"tradeCount"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	IsActive    bool            `json:"isActive"`
}

// ToPublic converts Trader to TraderPublic (hides the API key).
func (t *Trader) ToPublic() TraderPublic {
	return TraderPublic{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		TradeCount:  t.TradeCount,
		TotalSpent:  t.TotalSpent,
		IsActive:    t.IsActive,
	}
}

// GenerateAPIKey creates a secure random API key for a trader.
func GenerateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "mm_sk_" + hex.EncodeToString(bytes), nil
}
