package reconciliation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_SettlesPayment(t *testing.T) {
	tests := []struct {
		event    EventType
		expected bool
	}{
		{EventPaymentReceived, true},
		{EventPaymentConfirmed, true},
		{EventPaymentCreated, false},
		{EventPaymentOverdue, false},
		{EventPaymentDeleted, false},
		{EventPaymentRefunded, false},
		{EventType(""), false},
		{EventType("payment_received"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.SettlesPayment())
		})
	}
}

func TestWebhookEvent_Decode(t *testing.T) {
	body := `{
		"id": "evt_05b708f961d739ea7eba7e4db318f621",
		"event": "PAYMENT_RECEIVED",
		"payment": {
			"object": "payment",
			"id": "pay_080225913252",
			"status": "RECEIVED",
			"billingType": "PIX",
			"value": 100.5,
			"externalReference": " ORDER-1 "
		}
	}`

	var evt WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(body), &evt))

	assert.Equal(t, EventPaymentReceived, evt.Event)
	assert.Equal(t, "pay_080225913252", evt.Payment.ID)
	assert.Equal(t, " ORDER-1 ", evt.Reference())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusPaid, StatusOf(true))
	assert.Equal(t, StatusPending, StatusOf(false))
}
