package engine

import "github.com/shopspring/decimal"

// Config carries the tunables shared by every market the registry creates.
type Config struct {
	// LiquidityParam is the LMSR b parameter for new markets.
	LiquidityParam decimal.Decimal

	// PriceImpactLimit is the maximum fractional price move a single AMM
	// buy may cause (0.10 = 10%). Compared as a ratio, so float is fine.
	PriceImpactLimit float64

	// ClampBand bounds an execution price to last*(1±ClampBand).
	ClampBand decimal.Decimal

	// MinTick floors every execution price.
	MinTick decimal.Decimal

	// MinBookLiquidity is the cumulative quantity a book must have seen
	// before it accepts orders for matching.
	MinBookLiquidity decimal.Decimal

	// TraderThreshold is the unique-trader count at which a market
	// switches from AMM to CDA pricing.
	TraderThreshold int

	// DefaultOutcomes is the outcome list for lazily bootstrapped markets.
	DefaultOutcomes []string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		LiquidityParam:   decimal.NewFromInt(10),
		PriceImpactLimit: 0.10,
		ClampBand:        decimal.NewFromFloat(0.05),
		MinTick:          decimal.NewFromFloat(0.1),
		MinBookLiquidity: decimal.NewFromInt(1000),
		TraderThreshold:  250,
		DefaultOutcomes:  []string{"YES", "NO"},
	}
}
