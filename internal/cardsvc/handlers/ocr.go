package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/teklemt/cardscan-service/internal/cardsvc/models"
	"github.com/teklemt/cardscan-service/internal/cardsvc/vision"
)

// 10 MB cap on multipart uploads.
const maxUploadBytes = 10 << 20

// readImage pulls the card image out of the request: either a multipart
// "file" part with an image MIME type, or a base64 "camera_image" form
// value from the browser capture flow. Validation happens before any
// external call is made.
func readImage(r *http.Request) ([]byte, bool, string) {
	// camera captures arrive as a plain urlencoded form, so a
	// non-multipart body is still acceptable here
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		return nil, false, "could not parse request body"
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()

		if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
			return nil, false, "file must be an image"
		}

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, false, "could not read uploaded file"
		}
		return data, true, ""
	}

	if encoded := r.FormValue("camera_image"); encoded != "" {
		if i := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && i >= 0 {
			encoded = encoded[i+1:]
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, false, "invalid camera image data"
		}
		return data, true, ""
	}

	return nil, false, "no image provided"
}

func extractError(w http.ResponseWriter, err error) {
	if errors.Is(err, vision.ErrBadImage) {
		writeError(w, http.StatusBadRequest, "could not decode image, upload a JPEG or PNG")
		return
	}
	log.Errorf("vision extraction failed: %v", err)
	writeError(w, http.StatusBadGateway, "OCR service unavailable")
}

type extractResponse struct {
	Success bool              `json:"success"`
	Fields  models.CardFields `json:"fields"`
}

// Extract runs OCR on the uploaded image and returns the fields without
// persisting anything. Step one of the two-step review flow.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	data, ok, msg := readImage(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	fields, err := h.extractor.Extract(r.Context(), data)
	if err != nil {
		extractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{Success: true, Fields: fields})
}

// ExtractAndSave performs extraction and persistence in a single call.
func (h *Handler) ExtractAndSave(w http.ResponseWriter, r *http.Request) {
	data, ok, msg := readImage(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	fields, err := h.extractor.Extract(r.Context(), data)
	if err != nil {
		extractError(w, err)
		return
	}

	if !fields.HasName() {
		writeError(w, http.StatusBadRequest, "could not extract name from business card")
		return
	}

	in := fields.Input()
	id, err := h.cards.Create(r.Context(), in)
	if err != nil {
		storeError(w, err, "extract and save")
		return
	}

	h.sendWelcome(r.Context(), id, in)

	writeJSON(w, http.StatusCreated, apiResponse{
		Success: true,
		Message: "business card extracted and saved successfully",
		Data: map[string]interface{}{
			"id":               id,
			"extracted_fields": fields,
		},
	})
}
