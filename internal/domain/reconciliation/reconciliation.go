package reconciliation

// PaymentStatus is the status reported to polling clients.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "PAID"
	StatusPending PaymentStatus = "PENDING"
)

// EventType is the Asaas webhook event name.
type EventType string

const (
	EventPaymentCreated   EventType = "PAYMENT_CREATED"
	EventPaymentConfirmed EventType = "PAYMENT_CONFIRMED"
	EventPaymentReceived  EventType = "PAYMENT_RECEIVED"
	EventPaymentOverdue   EventType = "PAYMENT_OVERDUE"
	EventPaymentDeleted   EventType = "PAYMENT_DELETED"
	EventPaymentRefunded  EventType = "PAYMENT_REFUNDED"
)

// SettlesPayment reports whether the event moves a charge into the paid set.
func (e EventType) SettlesPayment() bool {
	return e == EventPaymentReceived || e == EventPaymentConfirmed
}

// WebhookEvent is the subset of the Asaas webhook payload the service reads.
type WebhookEvent struct {
	ID      string         `json:"id,omitempty"`
	Event   EventType      `json:"event"`
	Payment WebhookPayment `json:"payment"`
}

// WebhookPayment is the charge carried by a webhook event.
type WebhookPayment struct {
	ID                string  `json:"id,omitempty"`
	Status            string  `json:"status,omitempty"`
	BillingType       string  `json:"billingType,omitempty"`
	Value             float64 `json:"value,omitempty"`
	ExternalReference string  `json:"externalReference"`
}

// Reference returns the external reference of the event as sent.
func (e WebhookEvent) Reference() string {
	return e.Payment.ExternalReference
}

// StatusOf maps set membership to a PaymentStatus.
func StatusOf(paid bool) PaymentStatus {
	if paid {
		return StatusPaid
	}
	return StatusPending
}
