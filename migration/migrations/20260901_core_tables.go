package migrations

import (
	"log"

	"hybridmarket/migration"
	"hybridmarket/models"

	"gorm.io/gorm"
)

func init() {
	if err := migration.Register("20260901_core_tables", Migration20260901CoreTables); err != nil {
		log.Fatalf("Failed to register migration 20260901_core_tables: %v", err)
	}
}

// Migration20260901CoreTables creates the durable tables behind the engine:
// markets, traders, trade records, positions, AMM snapshots and analytics.
func Migration20260901CoreTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Market{},
		&models.Trader{},
		&models.TradeRecord{},
		&models.Position{},
		&models.AMMSnapshot{},
		&models.AnalyticsBucket{},
	); err != nil {
		return err
	}

	indices := []string{
		"CREATE INDEX IF NOT EXISTS idx_trades_market_time ON trade_records(market_id, executed_at)",
		"CREATE INDEX IF NOT EXISTS idx_snapshots_market ON amm_snapshots(market_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_analytics_market_time ON analytics_buckets(market_id, captured_at)",
	}
	for _, idx := range indices {
		db.Exec(idx) // Ignore errors for indices that already exist
	}
	return nil
}
