package clipboard

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/klipworks/klipflow/internal/config"
	"github.com/klipworks/klipflow/internal/logging"
)

// Client wraps resty with rate limiting and retry support for bridge calls.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	log     *logging.Logger
}

type bridgeItem struct {
	Content  string `json:"content"`
	Mimetype string `json:"mimetype,omitempty"`
}

// NewClient creates a production-ready bridge client.
func NewClient(cfg config.ClipboardConfig, log *logging.Logger) *Client {
	// Retryable transport under resty for connection-level retries.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil // Disable logging

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.BridgeURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryMax).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(10 * time.Second).
		SetHeader("User-Agent", "klipflow/1.0").
		SetHeader("Accept", "application/json")
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond))
	}

	if log == nil {
		log = logging.NewNop()
	}

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		log:     log,
	}
}

// request creates a new rate-limited request.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}
	return c.resty.R().SetContext(ctx), nil
}

// Health checks bridge availability.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Get("/health")
	if err != nil {
		return fmt.Errorf("bridge health check: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("bridge health check: status %d", resp.StatusCode())
	}
	return nil
}

// Current returns the item currently on the clipboard.
func (c *Client) Current(ctx context.Context) (Item, error) {
	req, err := c.request(ctx)
	if err != nil {
		return Item{}, err
	}

	var raw bridgeItem
	resp, err := req.SetResult(&raw).Get("/clipboard")
	if err != nil {
		return Item{}, fmt.Errorf("bridge current: %w", err)
	}
	if resp.IsError() {
		return Item{}, fmt.Errorf("bridge current: status %d", resp.StatusCode())
	}

	item := FromRaw(0, raw.Content)
	item.Mimetype = raw.Mimetype
	return item, nil
}

// Copy places text on the clipboard.
func (c *Client) Copy(ctx context.Context, text string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(bridgeItem{Content: text}).
		Post("/clipboard")
	if err != nil {
		return fmt.Errorf("bridge copy: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("bridge copy: status %d", resp.StatusCode())
	}

	c.log.Debug("copied to clipboard", zap.Int("chars", len(text)))
	return nil
}

// History returns up to limit recent clipboard items, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]Item, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var raw []bridgeItem
	r := req.SetResult(&raw)
	if limit > 0 {
		r.SetQueryParam("limit", fmt.Sprintf("%d", limit))
	}
	resp, err := r.Get("/clipboard/history")
	if err != nil {
		return nil, fmt.Errorf("bridge history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bridge history: status %d", resp.StatusCode())
	}

	items := make([]Item, len(raw))
	for i, entry := range raw {
		items[i] = FromRaw(i, entry.Content)
		items[i].Mimetype = entry.Mimetype
	}
	return items, nil
}

// Clear empties the clipboard.
func (c *Client) Clear(ctx context.Context) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Delete("/clipboard")
	if err != nil {
		return fmt.Errorf("bridge clear: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("bridge clear: status %d", resp.StatusCode())
	}
	return nil
}
