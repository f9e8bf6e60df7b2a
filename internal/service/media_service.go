package service

import (
	"context"
	"io"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/media"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/rs/zerolog/log"
)

type MediaService struct {
	storage  ObjectStorage
	maxBytes int64
	metrics  *observability.Metrics
}

func NewMediaService(storage ObjectStorage, maxBytes int64, m *observability.Metrics) *MediaService {
	return &MediaService{storage: storage, maxBytes: maxBytes, metrics: m}
}

// UploadInput describes one file to store. Size must be exact.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	// Progress is optional; without it progress is logged in quarters.
	Progress media.ProgressFunc
}

func (s *MediaService) Upload(ctx context.Context, in UploadInput) (*media.Object, error) {
	if !s.storage.Configured() {
		return nil, domainErrors.ErrMissingAPIKey
	}
	if !media.IsAllowedContentType(in.ContentType) {
		return nil, domainErrors.ErrUnsupportedMediaType
	}
	if in.Size <= 0 {
		return nil, domainErrors.NewValidationError("file", "cannot be empty")
	}
	if in.Size > s.maxBytes {
		return nil, domainErrors.ErrMediaTooLarge
	}

	name := media.ObjectName(in.Filename)
	progress := in.Progress
	if progress == nil {
		progress = logProgress(name)
	}

	obj, err := s.storage.Upload(ctx, name, in.ContentType, in.Size, in.Body, progress)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MediaUploadedBytes.Add(float64(obj.Size))
	}
	log.Info().Str("object", obj.Name).Int64("size", obj.Size).Msg("media uploaded")
	return obj, nil
}

func logProgress(name string) media.ProgressFunc {
	next := int64(25)
	return func(sent, total int64) {
		if total <= 0 {
			return
		}
		pct := sent * 100 / total
		for pct >= next && next <= 100 {
			log.Debug().Str("object", name).Int64("percent", next).Msg("upload progress")
			next += 25
		}
	}
}
