package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSVURL = "http://localhost:9000/us-states.csv"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8050", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultStatesURL, cfg.StatesURL)
	assert.Equal(t, DefaultCountiesURL, cfg.CountiesURL)
	assert.Equal(t, 2*time.Minute, cfg.FetchTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("STATES_CSV_URL", testCSVURL)
	t.Setenv("COUNTIES_CSV_URL", "https://example.com/us-counties.csv")
	t.Setenv("FETCH_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, testCSVURL, cfg.StatesURL)
	assert.Equal(t, "https://example.com/us-counties.csv", cfg.CountiesURL)
	assert.Equal(t, 45*time.Second, cfg.FetchTimeout)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-5s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("FETCH_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
		})
	}
}

func TestLoad_InvalidStatesURL(t *testing.T) {
	t.Setenv("STATES_CSV_URL", "ftp://example.com/us-states.csv")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATES_CSV_URL")
}

func TestLoad_InvalidCountiesURL(t *testing.T) {
	t.Setenv("COUNTIES_CSV_URL", "us-counties.csv")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COUNTIES_CSV_URL")
}
