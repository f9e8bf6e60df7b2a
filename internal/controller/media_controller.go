package controller

import (
	"errors"
	"net/http"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/service"
)

const (
	mediaFormField = "file"
	// multipart parts above this size spill to temp files
	multipartMemory = 8 << 20
)

type MediaController struct {
	mediaService *service.MediaService
}

func NewMediaController(mediaService *service.MediaService) *MediaController {
	return &MediaController{mediaService: mediaService}
}

// Upload handles POST /api/media
func (h *MediaController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, domainErrors.ErrMediaTooLarge)
			return
		}
		writeError(w, domainErrors.NewValidationError(mediaFormField, "expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(mediaFormField)
	if err != nil {
		writeError(w, domainErrors.NewValidationError(mediaFormField, "is required"))
		return
	}
	defer file.Close()

	obj, err := h.mediaService.Upload(r.Context(), service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, obj)
}
