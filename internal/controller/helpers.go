package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrInvalidWebhookToken, http.StatusUnauthorized, "unauthorized"},
	{domainErrors.ErrInvalidWebhookBody, http.StatusInternalServerError, "invalid_body"},
	{domainErrors.ErrMissingAPIKey, http.StatusInternalServerError, "configuration_error"},
	{domainErrors.ErrUnexpectedResponse, http.StatusBadGateway, "unexpected_response"},
	{domainErrors.ErrProviderUnavailable, http.StatusServiceUnavailable, "provider_unavailable"},
	{domainErrors.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, "unsupported_media_type"},
	{domainErrors.ErrMediaTooLarge, http.StatusRequestEntityTooLarge, "media_too_large"},
	{domainErrors.ErrUnsupportedBillingType, http.StatusBadRequest, "unsupported_billing_type"},
	{domainErrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, resp := resolveError(err)
	writeJSON(w, status, resp)
}

// writeActionError answers in the {success, error} envelope used by the
// Instagram routes.
func writeActionError(w http.ResponseWriter, err error) {
	status, resp := resolveError(err)
	writeJSON(w, status, ActionResponse{Success: false, Error: resp.Error})
}

func resolveError(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		return http.StatusBadRequest, resp
	}

	var providerErr *domainErrors.ProviderError
	if errors.As(err, &providerErr) {
		resp.Code = "provider_error"
		resp.Error = providerErr.Message
		status := providerErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, resp
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		resp.Code = "body_too_large"
		resp.Error = "request body too large"
		return http.StatusRequestEntityTooLarge, resp
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			if m.status >= 500 {
				log.Error().Err(err).Str("code", m.code).Msg("request failed")
			}
			if m.err == domainErrors.ErrInvalidWebhookBody {
				resp.Error = "could not process webhook"
			}
			return m.status, resp
		}
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		return http.StatusUnprocessableEntity, resp
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	return http.StatusInternalServerError, resp
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}
