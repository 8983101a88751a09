// Package jobs holds the periodic background work around the engine.
package jobs

import (
	"context"
	"time"

	"hybridmarket/engine"
	"hybridmarket/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AnalyticsSweeper periodically snapshots every market's aggregates into
// analytics_buckets. It only reads engine state through read locks, so it
// never stalls trading.
type AnalyticsSweeper struct {
	reg      *engine.Registry
	db       *gorm.DB
	log      zerolog.Logger
	interval time.Duration
}

// NewAnalyticsSweeper builds a sweeper with the given interval.
func NewAnalyticsSweeper(reg *engine.Registry, db *gorm.DB, log zerolog.Logger, interval time.Duration) *AnalyticsSweeper {
	return &AnalyticsSweeper{
		reg:      reg,
		db:       db,
		log:      log.With().Str("component", "analytics").Logger(),
		interval: interval,
	}
}

// Run sweeps on the interval until the context is cancelled.
func (s *AnalyticsSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep captures one bucket per market.
func (s *AnalyticsSweeper) Sweep() {
	now := time.Now()
	for _, st := range s.reg.Stats() {
		bucket := models.AnalyticsBucket{
			MarketID:      st.ID,
			Mode:          string(st.Mode),
			AMMVolume:     st.AMMVolume,
			AMMTrades:     st.AMMTrades,
			BookTrades:    int64(st.BookTrades),
			TotalLiq:      st.TotalLiq,
			ActiveTraders: st.ActiveTraders,
			CapturedAt:    now,
		}
		if err := s.db.Create(&bucket).Error; err != nil {
			s.log.Error().Err(err).Str("market", st.ID).Msg("failed to write analytics bucket")
		}
	}
}
