package slogx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var seenID string
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = slogx.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusConflict)
	}))

	t.Run("generates and echoes request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/authorisations/code", nil))

		require.NotEmpty(t, seenID)
		require.Equal(t, seenID, rec.Header().Get(slogx.HeaderRequestID))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "WARN", line["level"])
		require.Equal(t, float64(http.StatusConflict), line["status"])
		require.Equal(t, seenID, line["req_id"])
	})

	t.Run("keeps inbound request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		req.Header.Set(slogx.HeaderRequestID, "req-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "req-123", seenID)
		require.Equal(t, "req-123", rec.Header().Get(slogx.HeaderRequestID))
	})
}

func TestFromContextDefaults(t *testing.T) {
	t.Parallel()
	require.Equal(t, slog.Default(), slogx.FromContext(t.Context()))
	require.Empty(t, slogx.RequestIDFromContext(t.Context()))
}

func TestNewRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := slogx.New(slogx.Config{
		Service: "scaconnect",
		Version: "test",
		Env:     "test",
		Level:   "debug",
		Output:  &buf,
	})
	logger.Debug("step", "pin", "12345", slog.Group("req", "token", "opaque", "login", "anton"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "scaconnect", line["service"])
	require.Equal(t, slogx.Redacted, line["pin"])

	group := line["req"].(map[string]any)
	require.Equal(t, slogx.Redacted, group["token"])
	require.Equal(t, "anton", group["login"])
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := slogx.New(slogx.Config{Level: "warn", Format: "text", Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown")

	// unknown levels fall back to info
	buf.Reset()
	logger = slogx.New(slogx.Config{Level: "chatty", Output: &buf})
	logger.Debug("hidden")
	logger.Info("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
