// Package service talks to the remote cinema inventory service. The
// client retries transient failures on reads, never retries mutating
// calls, and converts non-2xx responses into typed APIErrors at the
// boundary so the UI only ever sees messages, not raw transport state.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinema-booking-cli/model"
)

const (
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// API is the surface the UI consumes; implemented by Client and by the
// in-process Mock inventory.
type API interface {
	LoadLayout(ctx context.Context) (layout model.Layout, degraded bool)
	BookSeat(ctx context.Context, code, username, email string) (ticketID string, err error)
	CancelTicket(ctx context.Context, ticketID string) error
	GetSeat(ctx context.Context, code string) (model.SeatStatus, error)
}

// Client wraps HTTP access to the inventory service.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the inventory service responds with a non-2xx
// status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "inventory api error"
	}
	if e.Body != "" {
		return fmt.Sprintf("inventory api error: %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("inventory api error: %s", e.Status)
}

// IsNotFound reports whether the error represents a 404 from the service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsConflict reports whether the error represents a booking conflict.
func IsConflict(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusConflict
	}
	return false
}

// NewClient creates an inventory client for the given base URL. If
// httpClient is nil, a default client with a timeout is used.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// GetLayout fetches the authoritative seat layout.
func (c *Client) GetLayout(ctx context.Context) (model.Layout, error) {
	endpoint := c.baseURL + "/layout"
	var layout model.Layout
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &layout, c.maxAttempts); err != nil {
		return model.Layout{}, err
	}
	if err := layout.Validate(); err != nil {
		return model.Layout{}, fmt.Errorf("layout from %s: %w", endpoint, err)
	}
	return layout, nil
}

// LoadLayout fetches the layout and, on any failure, substitutes the
// deterministic fallback so callers always have renderable data. The
// degraded flag tells the UI the view may be stale; it is a warning, not
// an error state.
func (c *Client) LoadLayout(ctx context.Context) (model.Layout, bool) {
	layout, err := c.GetLayout(ctx)
	if err != nil {
		return FallbackLayout(), true
	}
	return layout, false
}

// BookSeat submits one seat code for booking and returns the issued
// ticket id. Never retried: a booking is not idempotent.
func (c *Client) BookSeat(ctx context.Context, code, username, email string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", errors.New("seat code is required")
	}
	endpoint := c.baseURL + "/book"
	body := map[string]string{
		"seatCode": code,
		"username": username,
		"email":    email,
	}
	var result struct {
		Ticket string `json:"ticket"`
	}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &result, 1); err != nil {
		return "", err
	}
	if result.Ticket == "" {
		return "", fmt.Errorf("booking %s: service returned no ticket", code)
	}
	return result.Ticket, nil
}

// CancelTicket cancels the booking the ticket id covers.
func (c *Client) CancelTicket(ctx context.Context, ticketID string) error {
	if strings.TrimSpace(ticketID) == "" {
		return errors.New("ticket id is required")
	}
	endpoint := c.baseURL + "/book/" + url.PathEscape(ticketID)
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil, 1)
}

// GetSeat fetches a single seat's status. Debug/diagnostic endpoint.
func (c *Client) GetSeat(ctx context.Context, code string) (model.SeatStatus, error) {
	if strings.TrimSpace(code) == "" {
		return model.SeatStatus{}, errors.New("seat code is required")
	}
	endpoint := c.baseURL + "/seats/" + url.PathEscape(code)
	var status model.SeatStatus
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &status, c.maxAttempts); err != nil {
		return model.SeatStatus{}, err
	}
	return status, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any, out any, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       strings.TrimSpace(string(snippet)),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, res.Body)
			_ = res.Body.Close()
			return nil
		}
		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	timer := time.NewTimer(c.retryDelay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
