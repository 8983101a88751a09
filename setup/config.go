package setup

import (
	"os"
	"strconv"

	"hybridmarket/engine"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the full process configuration, loaded from an optional YAML
// file and overridable per field from the environment.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	Database struct {
		Driver string `yaml:"driver"` // "sqlite" or "postgres"
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	AdminPasswordHash string `yaml:"admin_password_hash"` // bcrypt
	JWTSecret         string `yaml:"jwt_secret"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Engine struct {
		LiquidityParam   string   `yaml:"liquidity_param"`
		PriceImpactLimit float64  `yaml:"price_impact_limit"`
		ClampBand        string   `yaml:"clamp_band"`
		MinTick          string   `yaml:"min_tick"`
		MinBookLiquidity string   `yaml:"min_book_liquidity"`
		TraderThreshold  int      `yaml:"trader_threshold"`
		DefaultOutcomes  []string `yaml:"default_outcomes"`
		InitialReserve   string   `yaml:"initial_reserve"`
	} `yaml:"engine"`

	Analytics struct {
		SweepSeconds int `yaml:"sweep_seconds"`
	} `yaml:"analytics"`
}

// Load reads the YAML config at path (missing file is fine, defaults
// apply), then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{ListenAddr: ":8080"}
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "hybridmarket.db"
	cfg.RateLimit.RPS = 25
	cfg.RateLimit.Burst = 50
	cfg.Engine.LiquidityParam = "10"
	cfg.Engine.PriceImpactLimit = 0.10
	cfg.Engine.ClampBand = "0.05"
	cfg.Engine.MinTick = "0.1"
	cfg.Engine.MinBookLiquidity = "1000"
	cfg.Engine.TraderThreshold = 250
	cfg.Engine.DefaultOutcomes = []string{"YES", "NO"}
	cfg.Engine.InitialReserve = "1000000"
	cfg.Analytics.SweepSeconds = 60
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		c.AdminPasswordHash = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("TRADER_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.TraderThreshold = n
		}
	}
	if v := os.Getenv("INITIAL_RESERVE"); v != "" {
		c.Engine.InitialReserve = v
	}
}

// EngineConfig converts the engine section into the engine's own Config.
// Malformed decimal fields fall back to the engine defaults.
func (c *Config) EngineConfig() engine.Config {
	ec := engine.DefaultConfig()
	if d, err := decimal.NewFromString(c.Engine.LiquidityParam); err == nil && d.IsPositive() {
		ec.LiquidityParam = d
	}
	if c.Engine.PriceImpactLimit > 0 {
		ec.PriceImpactLimit = c.Engine.PriceImpactLimit
	}
	if d, err := decimal.NewFromString(c.Engine.ClampBand); err == nil && d.IsPositive() {
		ec.ClampBand = d
	}
	if d, err := decimal.NewFromString(c.Engine.MinTick); err == nil && d.IsPositive() {
		ec.MinTick = d
	}
	if d, err := decimal.NewFromString(c.Engine.MinBookLiquidity); err == nil && d.IsPositive() {
		ec.MinBookLiquidity = d
	}
	if c.Engine.TraderThreshold > 0 {
		ec.TraderThreshold = c.Engine.TraderThreshold
	}
	if len(c.Engine.DefaultOutcomes) >= 2 {
		ec.DefaultOutcomes = c.Engine.DefaultOutcomes
	}
	return ec
}

// InitialReserve parses the configured starting collateral balance.
func (c *Config) InitialReserve() decimal.Decimal {
	if d, err := decimal.NewFromString(c.Engine.InitialReserve); err == nil && d.IsPositive() {
		return d
	}
	return decimal.NewFromInt(1000000)
}
