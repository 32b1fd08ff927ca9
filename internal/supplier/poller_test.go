package supplier

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusScript serves a fixed status sequence per order id, repeating the
// last entry once the script runs out.
type statusScript struct {
	mu    sync.Mutex
	calls map[string]int
	seq   map[string][]Status
}

func newStatusScript(seq map[string][]Status) *statusScript {
	return &statusScript{calls: make(map[string]int), seq: seq}
}

func (s *statusScript) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var ref orderRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	script := s.seq[ref.OrderID]
	n := s.calls[ref.OrderID]
	s.calls[ref.OrderID]++
	s.mu.Unlock()

	if len(script) == 0 {
		http.Error(w, "unknown order", http.StatusNotFound)
		return
	}
	if n >= len(script) {
		n = len(script) - 1
	}

	raw, _ := json.Marshal(orderStatusData{Status: script[n]})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope{Status: "ok", Data: raw})
}

func (s *statusScript) callCount(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[orderID]
}

func fastPoll(attempts int) PollConfig {
	return PollConfig{MaxAttempts: attempts, Interval: time.Millisecond}
}

func TestPollOrderStatusReachesTerminal(t *testing.T) {
	script := newStatusScript(map[string][]Status{
		"9001": {StatusProcessing, StatusProcessing, StatusConfirmed},
	})
	c := newTestClient(t, script)

	var seen []Status
	status, err := c.PollOrderStatus(context.Background(), "9001", fastPoll(20), func(attempt int, s Status) {
		seen = append(seen, s)
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)
	assert.Equal(t, []Status{StatusProcessing, StatusProcessing, StatusConfirmed}, seen)
	assert.Equal(t, 3, script.callCount("9001"), "polling must stop at the first terminal status")
}

func TestPollOrderStatusFailedIsTerminal(t *testing.T) {
	script := newStatusScript(map[string][]Status{
		"9001": {StatusProcessing, StatusFailed},
	})
	c := newTestClient(t, script)

	status, err := c.PollOrderStatus(context.Background(), "9001", fastPoll(20), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, status)
}

func TestPollOrderStatusTimeout(t *testing.T) {
	script := newStatusScript(map[string][]Status{
		"9001": {StatusProcessing},
	})
	c := newTestClient(t, script)

	_, err := c.PollOrderStatus(context.Background(), "9001", fastPoll(5), nil)
	require.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, 5, script.callCount("9001"))
}

func TestPollOrderStatusToleratesPollErrors(t *testing.T) {
	var calls int
	var mu sync.Mutex
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		raw, _ := json.Marshal(orderStatusData{Status: StatusConfirmed})
		json.NewEncoder(w).Encode(envelope{Status: "ok", Data: raw})
	}))

	status, err := c.PollOrderStatus(context.Background(), "9001", fastPoll(10), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)
}

// Poll-then-sleep ordering: three polls ending in a terminal status take two
// interval waits, not three.
func TestPollOrderStatusSleepsOnlyBetweenAttempts(t *testing.T) {
	script := newStatusScript(map[string][]Status{
		"9001": {StatusProcessing, StatusProcessing, StatusConfirmed},
	})
	c := newTestClient(t, script)

	interval := 60 * time.Millisecond
	start := time.Now()
	_, err := c.PollOrderStatus(context.Background(), "9001", PollConfig{MaxAttempts: 20, Interval: interval}, nil)
	require.NoError(t, err)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 2*interval)
	assert.Less(t, elapsed, 3*interval+50*time.Millisecond)
}

func TestPollOrderStatusContextCancel(t *testing.T) {
	script := newStatusScript(map[string][]Status{
		"9001": {StatusProcessing},
	})
	c := newTestClient(t, script)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.PollOrderStatus(ctx, "9001", PollConfig{MaxAttempts: 20, Interval: time.Second}, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPollOrdersStatusAllTerminal(t *testing.T) {
	script := newStatusScript(map[string][]Status{
		"9001": {StatusProcessing, StatusConfirmed},
		"9002": {StatusConfirmed},
		"9003": {StatusProcessing, StatusProcessing, StatusFailed},
	})
	c := newTestClient(t, script)

	results, err := c.PollOrdersStatus(context.Background(), []string{"9001", "9002", "9003"}, fastPoll(20))
	require.NoError(t, err)
	assert.Equal(t, map[string]Status{
		"9001": StatusConfirmed,
		"9002": StatusConfirmed,
		"9003": StatusFailed,
	}, results)
	assert.Equal(t, 1, script.callCount("9002"), "resolved orders leave the pending set")
}

// One of three rooms never leaves processing: the other two must still be
// reported, with no error, once the attempt budget runs out.
func TestPollOrdersStatusPartialResults(t *testing.T) {
	script := newStatusScript(map[string][]Status{
		"9001": {StatusConfirmed},
		"9002": {StatusProcessing},
		"9003": {StatusProcessing, StatusConfirmed},
	})
	c := newTestClient(t, script)

	results, err := c.PollOrdersStatus(context.Background(), []string{"9001", "9002", "9003"}, fastPoll(4))
	require.NoError(t, err)
	assert.Equal(t, map[string]Status{
		"9001": StatusConfirmed,
		"9003": StatusConfirmed,
	}, results)
	assert.NotContains(t, results, "9002")
	assert.Equal(t, 4, script.callCount("9002"), "stuck orders are polled every round")
}

func TestPollOrdersStatusEmptyInput(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	results, err := c.PollOrdersStatus(context.Background(), nil, fastPoll(3))
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = c.PollOrdersStatus(context.Background(), []string{""}, fastPoll(3))
	require.NoError(t, err)
	assert.Empty(t, results)
}
