// Package client talks to a running checkout API: it reads payment status,
// waits for a payment to settle and replays webhook deliveries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/reconciliation"
	"github.com/cassiomorais/checkout/internal/provider"
)

// Name labels errors returned by the checkout API.
const Name = "checkout"

const webhookTokenHeader = "asaas-webhook-token"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for the API served at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: provider.NewHTTPClient(10 * time.Second),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type statusResponse struct {
	Status reconciliation.PaymentStatus `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Status returns the reported status of ref.
func (c *Client) Status(ctx context.Context, ref string) (reconciliation.PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status?ref="+url.QueryEscape(ref), nil)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}

	var out statusResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// SendWebhook posts evt to the webhook endpoint with the shared token.
func (c *Client) SendWebhook(ctx context.Context, token string, evt reconciliation.WebhookEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode webhook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/webhooks/asaas", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhookTokenHeader, token)

	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		msg := fmt.Sprintf("server returned status %d", resp.StatusCode)
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return domainErrors.NewProviderError(Name, resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrUnexpectedResponse, err)
	}
	return nil
}
