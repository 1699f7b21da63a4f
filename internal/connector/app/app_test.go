package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("LEDGERS_URL", "http://ledgers:8081")
	t.Setenv("LEDGERS_TIMEOUT", "3")
	t.Setenv("REPLAY_TTL", "2h")
	t.Setenv("PORT", "not-a-port")

	cfg := LoadConfig()
	require.Equal(t, "http://ledgers:8081", cfg.LedgersURL)
	require.Equal(t, 3*time.Second, cfg.LedgersTimeout)
	require.Equal(t, 2*time.Hour, cfg.ReplayTTL)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "memory", cfg.ReplayGuard)
	require.Equal(t, "REDIRECT", cfg.DefaultApproach)
}

func testConfig(ledgersURL string) Config {
	cfg := LoadConfig()
	cfg.LedgersURL = ledgersURL
	cfg.LogFormat = "text"
	cfg.LogLevel = "error"
	return cfg
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown approach", func(c *Config) { c.DefaultApproach = "CARRIER_PIGEON" }},
		{"unknown policy", func(c *Config) { c.NoMethodsPolicy = "sometimes" }},
		{"unknown guard", func(c *Config) { c.ReplayGuard = "etcd" }},
		{"empty seal secret", func(c *Config) { c.IDSealSecret = "" }},
		{"profile without approaches", func(c *Config) {
			path := filepath.Join(t.TempDir(), "profile.yaml")
			require.NoError(t, os.WriteFile(path, []byte("sca_approaches: []\n"), 0o600))
			c.ProfileFile = path
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("http://127.0.0.1:1")
			tt.modify(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}

func TestReadyzFollowsLedgers(t *testing.T) {
	var down atomic.Bool
	ledgers := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, ledgersdk.HealthResponse{Status: "degraded"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ledgersdk.HealthResponse{Status: "ok"})
	}))
	t.Cleanup(ledgers.Close)

	cfg := testConfig(ledgers.URL)
	cfg.ReplayGuard = "none"
	app, err := New(cfg)
	require.NoError(t, err)

	readiness := func() int {
		rec := httptest.NewRecorder()
		app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		return rec.Code
	}
	require.Equal(t, http.StatusOK, readiness())

	down.Store(true)
	require.Equal(t, http.StatusServiceUnavailable, readiness())
}

func TestProfileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sca_approaches: [EMBEDDED]
ais_redirect_url: https://aspsp/ais
`), 0o600))

	cfg := testConfig("http://127.0.0.1:1")
	cfg.ProfileFile = path
	cfg.DefaultApproach = "EMBEDDED"

	app, err := New(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("TPP-Redirect-Preferred", "true")
	require.Equal(t, "EMBEDDED", string(app.resolver.Approach(req)))
}
