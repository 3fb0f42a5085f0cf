package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"edureward/pkg/platform/circuit"
	"edureward/pkg/requestcontext"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	transfersPath      = "/v1/transfers"
)

// HTTPClient calls the external token service over JSON/HTTP.
// It never retries: a retry after a partially applied remote transfer could double-pay.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type HTTPOption func(*HTTPClient)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.client = c
		}
	}
}

func WithAPIKey(key string) HTTPOption {
	return func(h *HTTPClient) {
		h.apiKey = key
	}
}

func WithBreaker(b *circuit.Breaker) HTTPOption {
	return func(h *HTTPClient) {
		h.breaker = b
	}
}

func WithLogger(logger *slog.Logger) HTTPOption {
	return func(h *HTTPClient) {
		h.logger = logger
	}
}

func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		breaker: circuit.New("ledger"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type transferError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (h *HTTPClient) Transfer(ctx context.Context, req TransferRequest) error {
	if h.breaker != nil && !h.breaker.Allow() {
		return fmt.Errorf("circuit %s open: %w", h.breaker.Name(), ErrUnavailable)
	}

	err := h.post(ctx, req)
	h.record(ctx, err)
	return err
}

func (h *HTTPClient) post(ctx context.Context, req TransferRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode transfer: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+transfersPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build transfer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Reference != "" {
		httpReq.Header.Set("Idempotency-Key", req.Reference)
	}
	if h.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		httpReq.Header.Set("X-Request-ID", requestID)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("transfer request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var remote transferError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&remote)
	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("ledger status %d: %w", resp.StatusCode, ErrUnavailable)
	case remote.Error == "insufficient_balance":
		return fmt.Errorf("ledger: %s: %w", remote.Description, ErrInsufficientBalance)
	default:
		return fmt.Errorf("ledger status %d %s: %w", resp.StatusCode, remote.Error, ErrRejected)
	}
}

// record feeds the breaker. Only infrastructure failures count against it;
// business rejections mean the service is healthy.
func (h *HTTPClient) record(ctx context.Context, err error) {
	if h.breaker == nil {
		return
	}
	if err == nil || !isUnavailable(err) {
		if _, change := h.breaker.RecordSuccess(); change.Closed {
			h.logger.InfoContext(ctx, "ledger circuit closed", "circuit", h.breaker.Name())
		}
		return
	}
	if _, change := h.breaker.RecordFailure(); change.Opened {
		h.logger.WarnContext(ctx, "ledger circuit opened",
			"circuit", h.breaker.Name(),
			"error", err,
		)
	}
}

func isUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
