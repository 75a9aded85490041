package handler

import (
	"net/http"

	"github.com/nonomnouns/clankpad/internal/application/image"
)

// maxImageSize caps multipart image uploads at 10 MiB.
const maxImageSize = 10 << 20

// ImageHandler uploads token images to object storage.
type ImageHandler struct {
	svc image.Service
}

func NewImageHandler(svc image.Service) *ImageHandler {
	return &ImageHandler{svc: svc}
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	url, err := h.svc.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadEnvelope{Success: true, URL: url})
}
