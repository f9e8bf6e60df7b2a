package controller

import (
	"net/http"

	"github.com/cassiomorais/checkout/internal/service"
)

type CheckoutController struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutController(checkoutService *service.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

// CreateCharge handles POST /api/asaas
func (h *CheckoutController) CreateCharge(w http.ResponseWriter, r *http.Request) {
	var req CreateChargeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	charge, err := h.checkoutService.CreateCharge(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChargeResponse(charge))
}
