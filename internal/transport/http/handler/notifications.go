package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nonomnouns/clankpad/internal/application/notification"
	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/nonomnouns/clankpad/internal/pkg/validate"
)

// NotificationHandler exposes direct push delivery to a single user.
type NotificationHandler struct {
	svc       notification.Service
	targetURL string
}

func NewNotificationHandler(svc notification.Service, targetURL string) *NotificationHandler {
	return &NotificationHandler{svc: svc, targetURL: targetURL}
}

// Send delivers a notification to every registered token of the target fid.
// The X-Skip-Rate-Limit header lets internal callers bypass the push
// endpoint's per-token rate limit buckets.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendNotificationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validate.Struct(req); len(msgs) > 0 {
		writeError(w, http.StatusBadRequest, strings.Join(msgs, "; "))
		return
	}

	skip := strings.EqualFold(r.Header.Get("X-Skip-Rate-Limit"), "true")
	payload := domain.NotificationPayload{
		NotificationID: req.NotificationID,
		Title:          req.Title,
		Body:           req.Body,
		TargetURL:      h.targetURL,
	}
	if err := h.svc.Deliver(r.Context(), req.FID, payload, skip); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true})
}
