// Package persist is the durable-store collaborator: it receives committed
// engine events and writes them to the database off the trading path. A
// failed or slow write is logged and dropped; it never rolls back or stalls
// a trade that already committed.
package persist

import (
	"encoding/json"
	"time"

	"hybridmarket/engine"
	"hybridmarket/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const queueSize = 1024

type event struct {
	ammTrade  *ammTradeEvent
	bookTrade *bookTradeEvent
	snapshot  *snapshotEvent
}

type ammTradeEvent struct {
	marketID string
	userID   string
	outcome  int
	shares   decimal.Decimal
	cost     decimal.Decimal
	prices   []decimal.Decimal
	at       time.Time
}

type bookTradeEvent struct {
	marketID string
	trade    engine.Trade
}

type snapshotEvent struct {
	marketID string
	q        []decimal.Decimal
	volume   decimal.Decimal
	trades   int64
}

// Recorder is the asynchronous engine.Recorder implementation.
type Recorder struct {
	db    *gorm.DB
	log   zerolog.Logger
	queue chan event
	done  chan struct{}
}

// NewRecorder starts the write worker. Close releases it.
func NewRecorder(db *gorm.DB, log zerolog.Logger) *Recorder {
	r := &Recorder{
		db:    db,
		log:   log.With().Str("component", "persist").Logger(),
		queue: make(chan event, queueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Close drains the queue and stops the worker.
func (r *Recorder) Close() {
	close(r.queue)
	<-r.done
}

// AMMTrade enqueues a committed AMM buy. Non-blocking: if the queue is full
// the event is dropped and logged.
func (r *Recorder) AMMTrade(marketID, userID string, outcome int, shares, cost decimal.Decimal, prices []decimal.Decimal) {
	r.enqueue(event{ammTrade: &ammTradeEvent{
		marketID: marketID,
		userID:   userID,
		outcome:  outcome,
		shares:   shares,
		cost:     cost,
		prices:   prices,
		at:       time.Now(),
	}})
}

// BookTrade enqueues a committed book execution.
func (r *Recorder) BookTrade(marketID string, trade engine.Trade) {
	r.enqueue(event{bookTrade: &bookTradeEvent{marketID: marketID, trade: trade}})
}

// AMMSnapshot enqueues the post-trade AMM state.
func (r *Recorder) AMMSnapshot(marketID string, q []decimal.Decimal, volume decimal.Decimal, trades int64) {
	r.enqueue(event{snapshot: &snapshotEvent{marketID: marketID, q: q, volume: volume, trades: trades}})
}

func (r *Recorder) enqueue(e event) {
	select {
	case r.queue <- e:
	default:
		r.log.Warn().Msg("persistence queue full, dropping event")
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.queue {
		switch {
		case e.ammTrade != nil:
			r.writeAMMTrade(e.ammTrade)
		case e.bookTrade != nil:
			r.writeBookTrade(e.bookTrade)
		case e.snapshot != nil:
			r.writeSnapshot(e.snapshot)
		}
	}
}

func (r *Recorder) writeAMMTrade(e *ammTradeEvent) {
	outcome := e.outcome
	rec := models.TradeRecord{
		TradeID:    newTradeID(),
		MarketID:   e.marketID,
		Source:     models.TradeSourceAMM,
		Buyer:      e.userID,
		Outcome:    &outcome,
		Qty:        e.shares,
		Price:      e.prices[e.outcome],
		Cost:       e.cost,
		ExecutedAt: e.at,
	}
	if err := r.db.Create(&rec).Error; err != nil {
		r.log.Error().Err(err).Str("market", e.marketID).Msg("failed to persist amm trade")
		return
	}

	r.upsertPosition(e.marketID, e.userID, e.outcome, e.shares)
	r.bumpTraderStats(e.userID, e.cost)
}

func (r *Recorder) writeBookTrade(e *bookTradeEvent) {
	rec := models.TradeRecord{
		TradeID:    e.trade.ID.String(),
		MarketID:   e.marketID,
		Source:     models.TradeSourceBook,
		Buyer:      e.trade.Buyer,
		Seller:     e.trade.Seller,
		Qty:        e.trade.Qty,
		Price:      e.trade.Price,
		Cost:       e.trade.Qty.Mul(e.trade.Price),
		ExecutedAt: e.trade.ExecutedAt,
	}
	if err := r.db.Create(&rec).Error; err != nil {
		r.log.Error().Err(err).Str("market", e.marketID).Msg("failed to persist book trade")
	}
}

func (r *Recorder) writeSnapshot(e *snapshotEvent) {
	raw, err := json.Marshal(e.q)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to encode share vector")
		return
	}
	snap := models.AMMSnapshot{
		MarketID:   e.marketID,
		Quantities: string(raw),
		Volume:     e.volume,
		Trades:     e.trades,
	}
	if err := r.db.Create(&snap).Error; err != nil {
		r.log.Error().Err(err).Str("market", e.marketID).Msg("failed to persist amm snapshot")
	}
}

func (r *Recorder) upsertPosition(marketID, trader string, outcome int, shares decimal.Decimal) {
	pos := models.Position{
		MarketID:   marketID,
		TraderName: trader,
		Outcome:    outcome,
		Shares:     shares,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "market_id"}, {Name: "trader_name"}, {Name: "outcome"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"shares": gorm.Expr("shares + ?", shares)}),
	}).Create(&pos).Error
	if err != nil {
		r.log.Error().Err(err).Str("market", marketID).Str("trader", trader).Msg("failed to upsert position")
	}
}

func newTradeID() string { return uuid.New().String() }

func (r *Recorder) bumpTraderStats(name string, cost decimal.Decimal) {
	err := r.db.Model(&models.Trader{}).Where("name = ?", name).
		Updates(map[string]interface{}{
			"trade_count": gorm.Expr("trade_count + 1"),
			"total_spent": gorm.Expr("total_spent + ?", cost),
		}).Error
	if err != nil {
		r.log.Error().Err(err).Str("trader", name).Msg("failed to update trader stats")
	}
}
