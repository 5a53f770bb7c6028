package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	loaded, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, loaded.Symbols)
	assert.True(t, loaded.Simulation)
	assert.False(t, loaded.Testnet)
	assert.Equal(t, 100, loaded.HistoryBound)
	assert.Equal(t, 5*time.Second, loaded.CollectInterval)
	assert.Equal(t, 10*time.Second, loaded.DecideInterval)
	assert.Equal(t, float64(1000), loaded.Risk.MaxPositionSize)
	assert.True(t, loaded.Momentum.Enabled)
	assert.False(t, loaded.MeanReversion.Enabled)
	assert.Empty(t, loaded.Journal.ConnString)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"symbols": ["SOLUSDT"],
		"simulation": false,
		"testnet": true,
		"historyBound": 50,
		"collectIntervalSecs": 2,
		"decideIntervalSecs": 4,
		"risk": {"maxPositionSize": 10, "maxLossPerTrade": 5, "maxDailyLoss": 20, "stopLossPct": 0.01, "takeProfitPct": 0.02},
		"meanReversion": {"enabled": true, "lookback": 15, "threshold": 0.03, "orderSize": 0.002},
		"journal": {"connString": "postgres://trader@localhost/journal", "queueSize": 64}
	}`), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"SOLUSDT"}, loaded.Symbols)
	assert.False(t, loaded.Simulation)
	assert.True(t, loaded.Testnet)
	assert.Equal(t, 50, loaded.HistoryBound)
	assert.Equal(t, 2*time.Second, loaded.CollectInterval)
	assert.Equal(t, 4*time.Second, loaded.DecideInterval)
	assert.Equal(t, float64(10), loaded.Risk.MaxPositionSize)
	assert.True(t, loaded.MeanReversion.Enabled)
	assert.Equal(t, 15, loaded.MeanReversion.Lookback)
	assert.Equal(t, "postgres://trader@localhost/journal", loaded.Journal.ConnString)
	assert.Equal(t, 64, loaded.Journal.QueueSize)

	// fields the file omits keep their defaults
	assert.True(t, loaded.Momentum.Enabled)
	assert.Equal(t, 10, loaded.Momentum.Lookback)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_API_SECRET", "secret")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "key", creds.APIKey)
	assert.Equal(t, "secret", creds.APISecret)
}

func TestLoadCredentialsMissing(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")
	os.Unsetenv("BINANCE_API_KEY")
	os.Unsetenv("BINANCE_API_SECRET")

	_, err := LoadCredentials()
	assert.Error(t, err)
}
