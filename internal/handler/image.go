package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/storefront/internal/domain"
)

// ImageHandler serves stored product images.
type ImageHandler struct {
	images domain.ImageStore
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(images domain.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

// HandleServe serves image bytes with the Content-Type recorded at upload.
// GET /images/{name}
func (h *ImageHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ImageKey(r.PathValue("name"))
	if err != nil || key != r.PathValue("name") {
		http.NotFound(w, r)
		return
	}

	data, contentType, err := h.images.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("get image", "error", err, "key", key)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
