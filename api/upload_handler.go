package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/designer-portfolio-backend/errs"
)

const maxUploadBytes = 50 << 20

// Uploader stores a media file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, contentType string, size int64, body io.Reader) (string, error)
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  Uploader
}

func newUploadHandler(uploader Uploader) *uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return &uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

// uploadMedia stores one image or video for use as imageUrl or a gallery entry
// @Summary Upload media
// @Description Accepts a multipart form with a "file" field. The type is sniffed from the content, not taken from the client.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image or video"
// @Success 201 {object} UploadResponse "Public URL of the stored file"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing file"
// @Failure 413 {object} ErrorResponse "Request Entity Too Large"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type"
// @Failure 503 {object} ErrorResponse "Service Unavailable - Media storage failed"
// @Router /api/uploads [post]
func (h *uploadHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxErr.Limit))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart form", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		head := make([]byte, 512)
		n, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("file", err))
			return
		}
		head = head[:n]
		contentType := http.DetectContentType(head)

		url, err := h.uploader.Upload(r.Context(), contentType, header.Size, io.MultiReader(bytes.NewReader(head), file))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, UploadResponse{URL: url})
	}
}
