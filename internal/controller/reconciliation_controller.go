package controller

import (
	"fmt"
	"io"
	"net/http"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/service"
)

// WebhookTokenHeader carries the shared secret configured in the Asaas panel.
const WebhookTokenHeader = "asaas-webhook-token"

type ReconciliationController struct {
	reconciliationService *service.ReconciliationService
}

func NewReconciliationController(reconciliationService *service.ReconciliationService) *ReconciliationController {
	return &ReconciliationController{reconciliationService: reconciliationService}
}

// AsaasWebhook handles POST /api/webhooks/asaas. Any parsed delivery is
// acknowledged with 200 so the provider stops retrying, including events
// that do not settle a payment.
func (h *ReconciliationController) AsaasWebhook(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(WebhookTokenHeader)
	if err := h.reconciliationService.VerifyWebhookToken(token); err != nil {
		writeError(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", domainErrors.ErrInvalidWebhookBody, err))
		return
	}

	if _, err := h.reconciliationService.HandleWebhook(r.Context(), token, body); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "webhook received"})
}

// Status handles GET /api/status?ref=
func (h *ReconciliationController) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.reconciliationService.Status(r.Context(), r.URL.Query().Get("ref"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: string(status)})
}
