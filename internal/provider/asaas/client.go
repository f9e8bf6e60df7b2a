// Package asaas is a client for the Asaas v3 billing API.
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/payment"
	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/cassiomorais/checkout/internal/provider"
	"github.com/shopspring/decimal"
)

const (
	Name = "asaas"

	apiKeyHeader = "access_token"
)

// Client calls the Asaas REST API. It does not retry.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records upstream request counts and latency.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(cfg config.AsaasConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: provider.NewHTTPClient(cfg.Timeout),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type customerRequest struct {
	Name        string `json:"name"`
	CpfCnpj     string `json:"cpfCnpj"`
	Email       string `json:"email,omitempty"`
	MobilePhone string `json:"mobilePhone,omitempty"`
}

type customerResponse struct {
	ID string `json:"id"`
}

// paymentRequest carries customer as either an id or an inline customer.
type paymentRequest struct {
	Customer          any         `json:"customer"`
	BillingType       string      `json:"billingType"`
	Value             json.Number `json:"value"`
	DueDate           string      `json:"dueDate"`
	Description       string      `json:"description,omitempty"`
	ExternalReference string      `json:"externalReference"`
}

type paymentResponse struct {
	ID                  string          `json:"id"`
	Customer            string          `json:"customer"`
	Status              string          `json:"status"`
	BillingType         string          `json:"billingType"`
	Value               decimal.Decimal `json:"value"`
	DueDate             string          `json:"dueDate"`
	Description         string          `json:"description"`
	ExternalReference   string          `json:"externalReference"`
	InvoiceURL          string          `json:"invoiceUrl"`
	BankSlipURL         string          `json:"bankSlipUrl"`
	IdentificationField string          `json:"identificationField"`
	NossoNumero         string          `json:"nossoNumero"`
}

type errorResponse struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// CreateCustomer registers the customer and returns its Asaas id.
func (c *Client) CreateCustomer(ctx context.Context, customer payment.Customer) (string, error) {
	body := customerRequest{
		Name:        customer.Name,
		CpfCnpj:     customer.CpfCnpj,
		Email:       customer.Email,
		MobilePhone: customer.Phone,
	}

	var out customerResponse
	err := c.do(ctx, "create_customer", http.MethodPost, "/customers", body, &out,
		"customer creation failed", "check the customer data or the API key")
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("create customer: missing id: %w", domainErrors.ErrUnexpectedResponse)
	}
	return out.ID, nil
}

// CreatePayment creates the charge. With an empty customerID the customer
// is sent inline, which Asaas requires for card payments.
func (c *Client) CreatePayment(ctx context.Context, req payment.ChargeRequest, customerID string) (*payment.Charge, error) {
	body := paymentRequest{
		BillingType:       string(req.BillingType),
		Value:             json.Number(req.Value.StringFixed(2)),
		DueDate:           req.DueDate,
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
	}
	if customerID != "" {
		body.Customer = customerID
	} else {
		body.Customer = customerRequest{
			Name:        req.Customer.Name,
			CpfCnpj:     req.Customer.CpfCnpj,
			Email:       req.Customer.Email,
			MobilePhone: req.Customer.Phone,
		}
	}

	var out paymentResponse
	err := c.do(ctx, "create_payment", http.MethodPost, "/payments", body, &out,
		"charge creation failed", "check the charge data")
	if err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create payment: missing id: %w", domainErrors.ErrUnexpectedResponse)
	}

	return &payment.Charge{
		ID:                  out.ID,
		CustomerID:          out.Customer,
		Status:              out.Status,
		BillingType:         payment.BillingType(out.BillingType),
		Value:               out.Value,
		DueDate:             out.DueDate,
		Description:         out.Description,
		ExternalReference:   out.ExternalReference,
		InvoiceURL:          out.InvoiceURL,
		BankSlipURL:         out.BankSlipURL,
		IdentificationField: out.IdentificationField,
		NossoNumero:         out.NossoNumero,
	}, nil
}

// GetPixQrCode fetches the QR image and copy-paste payload of a PIX charge.
func (c *Client) GetPixQrCode(ctx context.Context, paymentID string) (*payment.PixQrCode, error) {
	var out payment.PixQrCode
	err := c.do(ctx, "get_pix_qr_code", http.MethodGet, "/payments/"+paymentID+"/pixQrCode", nil, &out,
		"pix qr code lookup failed", "qr code unavailable")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, in, out any, stage, fallback string) error {
	if !c.Configured() {
		return domainErrors.ErrMissingAPIKey
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", operation, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		provider.Observe(c.metrics, Name, operation, 0, start)
		return fmt.Errorf("%s: %w: %v", operation, domainErrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	provider.Observe(c.metrics, Name, operation, resp.StatusCode, start)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", operation, domainErrors.ErrProviderUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && len(e.Errors) > 0 && e.Errors[0].Description != "" {
			msg = e.Errors[0].Description
		}
		return domainErrors.NewProviderError(Name, resp.StatusCode, stage+": "+msg)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", operation, domainErrors.ErrUnexpectedResponse, err)
	}
	return nil
}
