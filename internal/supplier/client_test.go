package supplier

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallRateLimited(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "45")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("too many requests")) // deliberately not JSON
	}))

	_, err := c.Prebook(context.Background(), BookedRate{BookHash: "bh_123"})
	require.Error(t, err)

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 45*time.Second, rle.RetryAfter)
	assert.Equal(t, int32(1), calls.Load(), "rate-limited calls must not be retried")
}

func TestCallRateLimitedWithoutHeader(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.OrderStatus(context.Background(), "9001")
	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, defaultRetryAfter, rle.RetryAfter)
}

func TestCallStructuredError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(t, w, http.StatusBadRequest, "hotel_not_found", "no such hotel")
	}))

	_, err := c.OrderInfo(context.Background(), "9001")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "hotel_not_found", ae.Code)
	assert.Equal(t, "no such hotel", ae.Message)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

func TestCallNonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))

	_, err := c.OrderStatus(context.Background(), "9001")
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "unknown", ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
}

func TestPrebookSingleRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeAPIError(t, w, http.StatusGatewayTimeout, "timeout", "upstream timed out")
			return
		}
		writeData(t, w, PrebookResult{BookHash: "bh_123", Price: 199.00, CurrencyCode: "USD"})
	}))

	res, err := c.Prebook(context.Background(), BookedRate{BookHash: "bh_123"})
	require.NoError(t, err)
	assert.Equal(t, "bh_123", res.BookHash)
	assert.Equal(t, 199.00, res.Price)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPrebookRetriesOnlyOnce(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeAPIError(t, w, http.StatusGatewayTimeout, "timeout", "upstream timed out")
	}))

	_, err := c.Prebook(context.Background(), BookedRate{BookHash: "bh_123"})
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load(), "one initial call plus exactly one retry")
}

func TestPrebookTerminalErrorFailsFast(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeAPIError(t, w, http.StatusBadRequest, "rate_not_found", "rate expired")
	}))

	_, err := c.Prebook(context.Background(), BookedRate{BookHash: "bh_stale"})
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "rate_not_found", ae.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPrebookDefaultsPriceIncreasePercent(t *testing.T) {
	var got prebookRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decodeBody(t, r, &got)
		writeData(t, w, PrebookResult{BookHash: "bh_123"})
	}))

	_, err := c.Prebook(context.Background(), BookedRate{BookHash: "bh_123"})
	require.NoError(t, err)
	assert.Equal(t, defaultPriceIncreasePercent, got.PriceIncreasePercent)

	_, err = c.Prebook(context.Background(), BookedRate{BookHash: "bh_123", PriceIncreasePercent: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, got.PriceIncreasePercent)
}

func TestPrebookRequiresBookHash(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	_, err := c.Prebook(context.Background(), BookedRate{})
	require.Error(t, err)
}

func TestCancelOrderSandboxShortCircuit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	c.sandbox = true

	status, err := c.CancelOrder(context.Background(), "9001")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, status)

	docs, err := c.OrderDocumentsList(context.Background(), "9001")
	require.NoError(t, err)
	assert.Equal(t, "9001", docs.OrderID)

	assert.Equal(t, int32(0), calls.Load(), "sandbox mode must not reach the supplier")
}

func TestCancelOrderLive(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, epOrderCancel, r.URL.Path)
		var ref orderRef
		decodeBody(t, r, &ref)
		require.Equal(t, "9001", ref.OrderID)
		writeData(t, w, orderStatusData{Status: StatusCancelled})
	}))

	status, err := c.CancelOrder(context.Background(), "9001")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, status)
}

func TestCallContextCancelled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.OrderStatus(ctx, "9001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || classify(err) == kindRetryable)
}
