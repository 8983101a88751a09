package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trade sources.
const (
	TradeSourceAMM  = "amm"
	TradeSourceBook = "book"
)

// TradeRecord is one executed trade, from either mechanism. AMM buys have
// no seller and carry the outcome index; book executions carry both sides.
type TradeRecord struct {
	gorm.Model
	ID       int64  `json:"id" gorm:"primary_key"`
	TradeID  string `json:"tradeId" gorm:"unique;not null"`
	MarketID string `json:"marketId" gorm:"not null;index"`
	Source   string `json:"source" gorm:"not null;size:10;index"`

	Buyer   string `json:"buyer" gorm:"not null;size:50;index"`
	Seller  string `json:"seller,omitempty" gorm:"size:50"`
	Outcome *int   `json:"outcome,omitempty"`

	Qty   decimal.Decimal `json:"qty" gorm:"type:numeric;not null"`
	Price decimal.Decimal `json:"price" gorm:"type:numeric"`
	Cost  decimal.Decimal `json:"cost" gorm:"type:numeric"`

	ExecutedAt time.Time `json:"executedAt" gorm:"not null;index"`
}

// Position is a trader's cumulative share holding on one outcome of one
// market, upserted after every committed trade.
type Position struct {
	gorm.Model
	ID         int64           `json:"id" gorm:"primary_key"`
	MarketID   string          `json:"marketId" gorm:"not null;index;uniqueIndex:idx_position"`
	TraderName string          `json:"traderName" gorm:"not null;size:50;index;uniqueIndex:idx_position"`
	Outcome    int             `json:"outcome" gorm:"uniqueIndex:idx_position"`
	Shares     decimal.Decimal `json:"shares" gorm:"type:numeric;not null"`
}

// AMMSnapshot is the AMM state after a committed buy: the share vector
// (JSON-encoded), cumulative volume and trade count.
type AMMSnapshot struct {
	gorm.Model
	ID         int64           `json:"id" gorm:"primary_key"`
	MarketID   string          `json:"marketId" gorm:"not null;index"`
	Quantities string          `json:"quantities" gorm:"not null"`
	Volume     decimal.Decimal `json:"volume" gorm:"type:numeric"`
	Trades     int64           `json:"trades"`
}

// AnalyticsBucket is one row of the periodic aggregation sweep.
type AnalyticsBucket struct {
	gorm.Model
	ID            int64           `json:"id" gorm:"primary_key"`
	MarketID      string          `json:"marketId" gorm:"not null;index"`
	Mode          string          `json:"mode" gorm:"size:10"`
	AMMVolume     decimal.Decimal `json:"ammVolume" gorm:"type:numeric"`
	AMMTrades     int64           `json:"ammTrades"`
	BookTrades    int64           `json:"bookTrades"`
	TotalLiq      decimal.Decimal `json:"totalLiq" gorm:"type:numeric"`
	ActiveTraders int             `json:"activeTraders"`
	CapturedAt    time.Time       `json:"capturedAt" gorm:"not null;index"`
}
