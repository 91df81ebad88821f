package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del hedger.
type Config struct {
	Hedger HedgerConfig `yaml:"hedger"`
	API    APIConfig    `yaml:"api"`
	Ledger LedgerConfig `yaml:"ledger"`
	Log    LogConfig    `yaml:"log"`
}

// HedgerConfig controla la estrategia de posiciones cubiertas.
type HedgerConfig struct {
	SeriesSlug          string  `yaml:"series_slug"`          // serie de Polymarket a monitorizar
	IntervalSeconds     int     `yaml:"interval_seconds"`     // cadencia del polling
	CheapThreshold      float64 `yaml:"cheap_threshold"`      // precio por debajo del cual un lado es barato
	MispricingThreshold float64 `yaml:"mispricing_threshold"` // yes+no por encima indica ineficiencia
	SafetyMargin        float64 `yaml:"safety_margin"`        // pair cost proyectado máximo aceptable
	TieBreak            string  `yaml:"tie_break"`            // random | yes | no — desempate en settlement
	DryRun              bool    `yaml:"dry_run"`              // simular fills en vez de enviar órdenes
}

// APIConfig contiene los base URLs y credenciales de las APIs.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
}

// LedgerConfig controla dónde se persiste el estado.
type LedgerConfig struct {
	Path       string `yaml:"path"`        // archivo JSON del performance log
	HistoryDSN string `yaml:"history_dsn"` // SQLite para el espejo de trade history, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben el YAML para las keys reconocidas.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// PollInterval devuelve la cadencia de polling como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Hedger.IntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v, ok := envFloat("ARBITRAGE_CHEAP_THRESHOLD"); ok {
		cfg.Hedger.CheapThreshold = v
	}
	if v, ok := envFloat("ARBITRAGE_MISPRICING_THRESHOLD"); ok {
		cfg.Hedger.MispricingThreshold = v
	}
	if v, ok := envFloat("ARBITRAGE_SAFETY_MARGIN"); ok {
		cfg.Hedger.SafetyMargin = v
	}
	if v := os.Getenv("ARBITRAGE_SERIES_SLUG"); v != "" {
		cfg.Hedger.SeriesSlug = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// envFloat lee una variable de entorno como float64.
func envFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Hedger.IntervalSeconds <= 0 {
		cfg.Hedger.IntervalSeconds = 30
	}
	if cfg.Hedger.CheapThreshold <= 0 {
		cfg.Hedger.CheapThreshold = 0.49
	}
	if cfg.Hedger.MispricingThreshold <= 0 {
		cfg.Hedger.MispricingThreshold = 1.05
	}
	if cfg.Hedger.SafetyMargin <= 0 {
		cfg.Hedger.SafetyMargin = 0.99
	}
	if cfg.Hedger.TieBreak == "" {
		cfg.Hedger.TieBreak = "random"
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = "performance_log.json"
	}
	if cfg.Ledger.HistoryDSN == "" {
		cfg.Ledger.HistoryDSN = "polyhedge.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
