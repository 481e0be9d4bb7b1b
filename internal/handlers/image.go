package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/travel-journal/internal/images"
	"github.com/crucial707/travel-journal/internal/metrics"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

type ImageHandler struct {
	Store          images.Store
	MaxUploadBytes int64
}

// ==========================
// Image Upload
// ==========================
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSONError(w, "Image too large", http.StatusRequestEntityTooLarge)
			return
		}
		JSONError(w, "No image uploaded", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		JSONError(w, "No image uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageURL, err := h.Store.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		internalError(w, r, "save image", err)
		return
	}

	slog.Info("image uploaded", "request_id", chimw.GetReqID(r.Context()), "image_url", imageURL, "size", header.Size)
	JSON(w, http.StatusOK, map[string]interface{}{"imageUrl": imageURL})
}

// ==========================
// Delete Image
// ==========================

// DeleteImage answers 200 even when the image does not exist, flagging it
// with "error": true.
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("imageUrl")
	if imageURL == "" {
		JSONError(w, "imageUrl parameter required", http.StatusBadRequest)
		return
	}

	err := h.Store.Delete(r.Context(), imageURL)
	if errors.Is(err, images.ErrNotFound) {
		metrics.IncImagesDeleted("missing")
		JSONError(w, "Image not found", http.StatusOK)
		return
	}
	if err != nil {
		metrics.IncImagesDeleted("error")
		internalError(w, r, "delete image", err)
		return
	}
	metrics.IncImagesDeleted("deleted")

	JSON(w, http.StatusOK, map[string]interface{}{"message": "Image deleted successfully"})
}
