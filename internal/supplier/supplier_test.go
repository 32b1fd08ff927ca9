package supplier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staybook/pkg/logger"

	"github.com/stretchr/testify/require"
)

// fastBackoff keeps retry tests quick without changing the attempt budget.
var fastBackoff = backoffPolicy{
	maxAttempts: orderFormBackoff.maxAttempts,
	base:        time.Millisecond,
	cap:         5 * time.Millisecond,
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL: srv.URL,
		KeyID:   "test-key",
		APIKey:  "test-secret",
		Timeout: 5 * time.Second,
	}, logger.GetDefault())
	c.backoff = fastBackoff
	c.prebookDelay = time.Millisecond
	return c
}

func writeData(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(envelope{Status: "ok", Data: raw})
	require.NoError(t, err)
}

func writeAPIError(t *testing.T, w http.ResponseWriter, httpStatus int, code, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	err := json.NewEncoder(w).Encode(envelope{
		Status: "error",
		Error:  &apiErrorBody{Code: code, Message: message},
	})
	require.NoError(t, err)
}

func decodeBody(t *testing.T, r *http.Request, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(out))
}
