package handler

import (
	"io"
	"net/http"

	"github.com/nonomnouns/clankpad/internal/application/webhook"
)

// maxWebhookBody bounds the signed event envelope; real events are well
// under a kilobyte.
const maxWebhookBody = 64 << 10

// WebhookHandler receives signed frame lifecycle events.
type WebhookHandler struct {
	svc webhook.Service
}

func NewWebhookHandler(svc webhook.Service) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}
	if err := h.svc.Process(r.Context(), raw); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true})
}
