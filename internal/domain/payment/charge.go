package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// BillingType is the Asaas billing method of a charge
type BillingType string

const (
	BillingPix        BillingType = "PIX"
	BillingBoleto     BillingType = "BOLETO"
	BillingCreditCard BillingType = "CREDIT_CARD"
)

// Valid reports whether the billing type is one the service can issue.
func (b BillingType) Valid() bool {
	switch b {
	case BillingPix, BillingBoleto, BillingCreditCard:
		return true
	}
	return false
}

const (
	// ReferencePrefix prefixes generated external references.
	ReferencePrefix = "PEDIDO"
	// DateLayout is the due date format the provider accepts.
	DateLayout = "2006-01-02"
)

// NewExternalReference returns "<ReferencePrefix>-<unix millis>".
func NewExternalReference(now time.Time) string {
	return fmt.Sprintf("%s-%d", ReferencePrefix, now.UnixMilli())
}

// Customer identifies the payer
type Customer struct {
	Name    string
	CpfCnpj string
	Email   string
	Phone   string
}

// ChargeRequest is the input for creating a charge
type ChargeRequest struct {
	Customer          Customer
	BillingType       BillingType
	Value             decimal.Decimal
	DueDate           string
	Description       string
	ExternalReference string
}

// Prepare normalizes the request, fills the due date and external reference
// defaults, and validates it. Nothing is sent to the provider when it fails.
func (r *ChargeRequest) Prepare(now time.Time, defaultDueDays int) error {
	r.Customer.Name = strings.TrimSpace(r.Customer.Name)
	r.Customer.Email = strings.TrimSpace(r.Customer.Email)
	r.Customer.Phone = onlyDigits(r.Customer.Phone)
	r.Customer.CpfCnpj = onlyDigits(r.Customer.CpfCnpj)
	r.Description = strings.TrimSpace(r.Description)

	if r.Customer.Name == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	if n := len(r.Customer.CpfCnpj); n != 11 && n != 14 {
		return errors.NewValidationError("cpfCnpj", "must have 11 (CPF) or 14 (CNPJ) digits")
	}
	if !r.BillingType.Valid() {
		return errors.NewValidationError("billingType", "must be one of PIX, BOLETO, CREDIT_CARD")
	}
	if !r.Value.IsPositive() {
		return errors.NewValidationError("value", "must be greater than 0")
	}
	r.Value = r.Value.Round(2)

	today := now.Format(DateLayout)
	if r.DueDate == "" {
		r.DueDate = now.AddDate(0, 0, defaultDueDays).Format(DateLayout)
	} else {
		due, err := time.Parse(DateLayout, r.DueDate)
		if err != nil {
			return errors.NewValidationError("dueDate", "must use the YYYY-MM-DD format")
		}
		if due.Format(DateLayout) < today {
			return errors.NewValidationError("dueDate", "cannot be in the past")
		}
	}

	if r.ExternalReference == "" {
		r.ExternalReference = NewExternalReference(now)
	}
	return nil
}

// PixQrCode holds the PIX redemption data
type PixQrCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

// Charge is the provider's charge reshaped for clients
type Charge struct {
	ID                  string
	CustomerID          string
	Status              string
	BillingType         BillingType
	Value               decimal.Decimal
	DueDate             string
	Description         string
	ExternalReference   string
	InvoiceURL          string
	BankSlipURL         string
	IdentificationField string
	NossoNumero         string
	PixQrCode           *PixQrCode
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
