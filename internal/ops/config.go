package ops

import (
	"encoding/json"
	"os"
	"time"

	"github.com/caarlos0/env/v10"

	"main/internal/errors"
	"main/internal/risk"
)

// Credentials come exclusively from the environment so API keys never land
// in config files.
type Credentials struct {
	APIKey    string `env:"BINANCE_API_KEY,required"`
	APISecret string `env:"BINANCE_API_SECRET,required"`
}

// LoadCredentials reads the venue credentials from the environment.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	if err := env.Parse(&c); err != nil {
		return Credentials{}, errors.Wrap(err, "parse credentials from env")
	}
	return c, nil
}

// StrategyConfig tunes one strategy instance.
type StrategyConfig struct {
	Enabled   bool    `json:"enabled"`
	Lookback  int     `json:"lookback"`
	Threshold float64 `json:"threshold"`
	OrderSize float64 `json:"orderSize"`
}

// JournalConfig points the optional trade journal at PostgreSQL. An empty
// ConnString disables the journal entirely.
type JournalConfig struct {
	ConnString string `json:"connString"`
	QueueSize  int    `json:"queueSize"`
}

// FileConfig mirrors the JSON config layout. Every field is optional;
// omitted fields keep the shipped defaults.
type FileConfig struct {
	Symbols             []string        `json:"symbols"`
	Simulation          *bool           `json:"simulation"`
	Testnet             bool            `json:"testnet"`
	HistoryBound        int             `json:"historyBound"`
	CollectIntervalSecs int             `json:"collectIntervalSecs"`
	DecideIntervalSecs  int             `json:"decideIntervalSecs"`
	Risk                *risk.Limits    `json:"risk"`
	Momentum            *StrategyConfig `json:"momentum"`
	MeanReversion       *StrategyConfig `json:"meanReversion"`
	Journal             JournalConfig   `json:"journal"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Symbols         []string
	Simulation      bool
	Testnet         bool
	HistoryBound    int
	CollectInterval time.Duration
	DecideInterval  time.Duration
	Risk            risk.Limits
	Momentum        StrategyConfig
	MeanReversion   StrategyConfig
	Journal         JournalConfig
}

func defaultLoaded() Loaded {
	return Loaded{
		Symbols:         []string{"BTCUSDT", "ETHUSDT"},
		Simulation:      true,
		HistoryBound:    100,
		CollectInterval: 5 * time.Second,
		DecideInterval:  10 * time.Second,
		Risk:            risk.DefaultLimits(),
		Momentum: StrategyConfig{
			Enabled:   true,
			Lookback:  10,
			Threshold: 0.01,
			OrderSize: 0.001,
		},
		MeanReversion: StrategyConfig{
			Lookback:  20,
			Threshold: 0.02,
			OrderSize: 0.001,
		},
		Journal: JournalConfig{QueueSize: 1024},
	}
}

// Load resolves the configuration, overlaying the JSON file at path onto the
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (Loaded, error) {
	loaded := defaultLoaded()
	if path == "" {
		return loaded, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "read config file")
	}

	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrap(err, "unmarshal config file")
	}

	if len(cfg.Symbols) > 0 {
		loaded.Symbols = cfg.Symbols
	}
	if cfg.Simulation != nil {
		loaded.Simulation = *cfg.Simulation
	}
	loaded.Testnet = cfg.Testnet
	if cfg.HistoryBound > 0 {
		loaded.HistoryBound = cfg.HistoryBound
	}
	if cfg.CollectIntervalSecs > 0 {
		loaded.CollectInterval = time.Duration(cfg.CollectIntervalSecs) * time.Second
	}
	if cfg.DecideIntervalSecs > 0 {
		loaded.DecideInterval = time.Duration(cfg.DecideIntervalSecs) * time.Second
	}
	if cfg.Risk != nil {
		loaded.Risk = *cfg.Risk
	}
	if cfg.Momentum != nil {
		loaded.Momentum = *cfg.Momentum
	}
	if cfg.MeanReversion != nil {
		loaded.MeanReversion = *cfg.MeanReversion
	}
	if cfg.Journal.ConnString != "" {
		loaded.Journal.ConnString = cfg.Journal.ConnString
	}
	if cfg.Journal.QueueSize > 0 {
		loaded.Journal.QueueSize = cfg.Journal.QueueSize
	}

	return loaded, nil
}
