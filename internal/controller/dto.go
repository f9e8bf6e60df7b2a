package controller

import (
	"encoding/json"

	"github.com/cassiomorais/checkout/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// --- Request DTOs ---
// JSON field names follow the checkout form; controllers convert them to
// domain requests before calling the services.

// CreateChargeRequest holds the input for creating a charge.
type CreateChargeRequest struct {
	Name              string          `json:"name" validate:"required"`
	CpfCnpj           string          `json:"cpfCnpj" validate:"required"`
	Email             string          `json:"email" validate:"omitempty,email"`
	Phone             string          `json:"phone"`
	BillingType       string          `json:"billingType" validate:"required,oneof=PIX BOLETO CREDIT_CARD"`
	Value             decimal.Decimal `json:"value"`
	DueDate           string          `json:"dueDate"`
	Description       string          `json:"description"`
	ExternalReference string          `json:"externalReference"`
}

func (r CreateChargeRequest) toDomain() payment.ChargeRequest {
	return payment.ChargeRequest{
		Customer: payment.Customer{
			Name:    r.Name,
			CpfCnpj: r.CpfCnpj,
			Email:   r.Email,
			Phone:   r.Phone,
		},
		BillingType:       payment.BillingType(r.BillingType),
		Value:             r.Value,
		DueDate:           r.DueDate,
		Description:       r.Description,
		ExternalReference: r.ExternalReference,
	}
}

// --- Response DTOs ---

// ChargeResponse is the charge as the provider returned it, plus QR data
// for PIX.
type ChargeResponse struct {
	ID                  string             `json:"id"`
	Customer            string             `json:"customer,omitempty"`
	Status              string             `json:"status,omitempty"`
	BillingType         string             `json:"billingType"`
	Value               json.Number        `json:"value"`
	DueDate             string             `json:"dueDate,omitempty"`
	Description         string             `json:"description,omitempty"`
	ExternalReference   string             `json:"externalReference"`
	InvoiceURL          string             `json:"invoiceUrl,omitempty"`
	BankSlipURL         string             `json:"bankSlipUrl,omitempty"`
	IdentificationField string             `json:"identificationField,omitempty"`
	NossoNumero         string             `json:"nossoNumero,omitempty"`
	PixQrCode           *payment.PixQrCode `json:"pixQrCode,omitempty"`
}

func toChargeResponse(c *payment.Charge) ChargeResponse {
	return ChargeResponse{
		ID:                  c.ID,
		Customer:            c.CustomerID,
		Status:              c.Status,
		BillingType:         string(c.BillingType),
		Value:               json.Number(c.Value.String()),
		DueDate:             c.DueDate,
		Description:         c.Description,
		ExternalReference:   c.ExternalReference,
		InvoiceURL:          c.InvoiceURL,
		BankSlipURL:         c.BankSlipURL,
		IdentificationField: c.IdentificationField,
		NossoNumero:         c.NossoNumero,
		PixQrCode:           c.PixQrCode,
	}
}

// StatusResponse answers a payment status check.
type StatusResponse struct {
	Status string `json:"status"`
}

// MessageResponse acknowledges a webhook delivery.
type MessageResponse struct {
	Message string `json:"message"`
}

// ActionResponse is the {success, data, error} envelope of the Instagram
// routes.
type ActionResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
