package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"staybook/pkg/logger"

	"github.com/go-resty/resty/v2"
)

// Supplier endpoints. All calls are POST with JSON bodies.
const (
	epPrebook              = "/hotel/prebook"
	epPrebookMultiroom     = "/hotel/prebook/multiroom"
	epOrderForm            = "/hotel/order/booking/form"
	epOrderFormMultiroom   = "/hotel/order/booking/form/multiroom"
	epOrderFinish          = "/hotel/order/booking/finish"
	epOrderFinishMultiroom = "/hotel/order/booking/finish/multiroom"
	epOrderStatus          = "/hotel/order/status"
	epOrderInfo            = "/hotel/order/info"
	epOrdersList           = "/hotel/order/list"
	epOrderCancel          = "/hotel/order/cancel"
	epOrderDocuments       = "/hotel/order/document/list"
	epContractData         = "/contract/data"
	epDestinationInfo      = "/destination/info"
)

const (
	defaultTimeout    = 25 * time.Second
	defaultRetryAfter = 60 * time.Second
)

// Config contains the supplier connection settings.
type Config struct {
	BaseURL string
	KeyID   string
	APIKey  string
	Timeout time.Duration
	// Sandbox short-circuits Cancel and Documents so demo bookings never
	// reach the live supplier.
	Sandbox bool
}

// Client issues requests to the hotel-supply API and normalizes every
// failure into the error taxonomy of this package.
type Client struct {
	http    *resty.Client
	log     *logger.Logger
	sandbox bool

	backoff      backoffPolicy
	prebookDelay time.Duration
}

// NewClient creates a supplier client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = logger.GetDefault()
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.KeyID != "" {
		rc.SetBasicAuth(cfg.KeyID, cfg.APIKey)
	}

	return &Client{
		http:         rc,
		log:          log,
		sandbox:      cfg.Sandbox,
		backoff:      orderFormBackoff,
		prebookDelay: prebookRetryDelay,
	}
}

// envelope is the uniform supplier response shape: either a data payload or
// a structured error object.
type envelope struct {
	Status string          `json:"status,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  *apiErrorBody   `json:"error,omitempty"`
}

type apiErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// call POSTs body to endpoint and decodes the data payload into out.
// HTTP-layer failures are folded into *APIError so callers never branch on
// status codes, with one exception: a 429 is surfaced as *RateLimitError
// before any JSON parsing, because a 429 body may not be valid JSON.
func (c *Client) call(ctx context.Context, endpoint string, body, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("supplier request %s: %w", endpoint, err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: retryAfterOf(resp)}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			return &APIError{Code: "unknown", Message: resp.Status(), HTTPStatus: resp.StatusCode()}
		}
		return fmt.Errorf("decode supplier response %s: %w", endpoint, err)
	}

	if env.Error != nil {
		return &APIError{Code: env.Error.Code, Message: env.Error.Message, HTTPStatus: resp.StatusCode()}
	}
	if resp.IsError() {
		return &APIError{Code: "unknown", Message: resp.Status(), HTTPStatus: resp.StatusCode()}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode supplier payload %s: %w", endpoint, err)
		}
	}
	return nil
}

// retryAfterOf reads the Retry-After header (seconds). The header is
// optional; absent or malformed values fall back to a conservative default.
func retryAfterOf(resp *resty.Response) time.Duration {
	raw := resp.Header().Get("Retry-After")
	if raw == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
