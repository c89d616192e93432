package obs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/paycalc/internal/obs"
)

func TestRequestLoggerRecordsStatusAndRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := obs.NewLogger(&buf, "json", "info")
	handler := obs.RequestLogger{Logger: logger}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("nope"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/cart/calculate-payment", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/api/cart/calculate-payment"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "http_request", entry["message"])
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "/api/cart/calculate-payment", entry["route"])
	require.EqualValues(t, 400, entry["status"])
	require.EqualValues(t, 4, entry["bytes"])
}
