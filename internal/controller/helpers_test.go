package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		payload      any
		expectedBody string
	}{
		{
			name:         "simple map",
			status:       http.StatusOK,
			payload:      map[string]string{"message": "hello"},
			expectedBody: `{"message":"hello"}`,
		},
		{
			name:         "struct",
			status:       http.StatusCreated,
			payload:      struct{ ID string }{ID: "123"},
			expectedBody: `{"ID":"123"}`,
		},
		{
			name:         "error response",
			status:       http.StatusBadRequest,
			payload:      ErrorResponse{Error: "bad request", Code: "invalid_input"},
			expectedBody: `{"error":"bad request","code":"invalid_input"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeJSON(w, tt.status, tt.payload)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestWriteError_ValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	err := domainErrors.NewValidationError("email", "must be valid email")

	writeError(w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "validation_error", response.Code)
	assert.Contains(t, response.Error, "email")
}

func TestWriteError_DomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "invalid webhook token",
			err:            domainErrors.ErrInvalidWebhookToken,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "unauthorized",
		},
		{
			name:           "invalid webhook body",
			err:            fmt.Errorf("%w: unexpected EOF", domainErrors.ErrInvalidWebhookBody),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "invalid_body",
		},
		{
			name:           "missing api key",
			err:            domainErrors.ErrMissingAPIKey,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "configuration_error",
		},
		{
			name:           "unexpected upstream response",
			err:            fmt.Errorf("profile: %w", domainErrors.ErrUnexpectedResponse),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "unexpected_response",
		},
		{
			name:           "provider unavailable",
			err:            domainErrors.ErrProviderUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "provider_unavailable",
		},
		{
			name:           "unsupported media type",
			err:            domainErrors.ErrUnsupportedMediaType,
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedCode:   "unsupported_media_type",
		},
		{
			name:           "media too large",
			err:            domainErrors.ErrMediaTooLarge,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedCode:   "media_too_large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response ErrorResponse
			err := json.NewDecoder(w.Body).Decode(&response)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, response.Code)
		})
	}
}

func TestWriteError_ProviderError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, domainErrors.NewProviderError("asaas", http.StatusBadRequest, "charge creation failed: invalid value"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "charge creation failed: invalid value", response.Error)
	assert.Equal(t, "provider_error", response.Code)
}

func TestWriteError_ProviderErrorWithOddStatus(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, domainErrors.NewProviderError("asaas", http.StatusFound, "redirected"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestWriteError_InvalidWebhookBodyHidesDetail(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, fmt.Errorf("%w: invalid character 'x'", domainErrors.ErrInvalidWebhookBody))

	var response ErrorResponse
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "could not process webhook", response.Error)
}

func TestWriteActionError(t *testing.T) {
	w := httptest.NewRecorder()
	writeActionError(w, domainErrors.NewProviderError("rapidapi", http.StatusTooManyRequests, "quota exceeded"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"quota exceeded"}`, w.Body.String())
}

func TestWriteError_GenericDomainError(t *testing.T) {
	w := httptest.NewRecorder()
	err := domainErrors.NewDomainError("custom_error", "custom error message", nil)

	writeError(w, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response ErrorResponse
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "custom_error", response.Code)
	assert.Equal(t, "custom error message", response.Error)
}

func TestWriteError_UnknownError_FallbackToInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()
	err := errors.New("unexpected error")

	writeError(w, err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response ErrorResponse
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "internal_error", response.Code)
	assert.Equal(t, "internal server error", response.Error)
}

func TestDecodeAndValidate_Success(t *testing.T) {
	type TestStruct struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	body := `{"name":"John","email":"john@example.com"}`
	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))

	var result TestStruct
	err := decodeAndValidate(req, &result)

	require.NoError(t, err)
	assert.Equal(t, "John", result.Name)
	assert.Equal(t, "john@example.com", result.Email)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	type TestStruct struct {
		Name string `json:"name"`
	}

	body := `{invalid json}`
	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))

	var result TestStruct
	err := decodeAndValidate(req, &result)

	assert.Error(t, err)
	var validationErr *domainErrors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "body", validationErr.Field)
	assert.Contains(t, validationErr.Message, "invalid JSON")
}

func TestDecodeAndValidate_ValidationFailure_RequiredField(t *testing.T) {
	type TestStruct struct {
		Name string `json:"name" validate:"required"`
	}

	body := `{"name":""}`
	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))

	var result TestStruct
	err := decodeAndValidate(req, &result)

	assert.Error(t, err)
	var validationErr *domainErrors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Message, "validation failed")
}

func TestDecodeAndValidate_ValidationFailure_EmailFormat(t *testing.T) {
	type TestStruct struct {
		Email string `json:"email" validate:"required,email"`
	}

	body := `{"email":"not-an-email"}`
	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))

	var result TestStruct
	err := decodeAndValidate(req, &result)

	assert.Error(t, err)
	var validationErr *domainErrors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "Email", validationErr.Field)
	assert.Contains(t, validationErr.Message, "validation failed")
}

func TestDecodeAndValidate_EmptyBody(t *testing.T) {
	type TestStruct struct {
		Name string `json:"name" validate:"required"`
	}

	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte{}))

	var result TestStruct
	err := decodeAndValidate(req, &result)

	assert.Error(t, err)
}
