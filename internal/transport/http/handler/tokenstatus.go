package handler

import (
	"net/http"
	"strconv"

	"github.com/nonomnouns/clankpad/internal/application/tokenstatus"
)

// TokenStatusHandler exposes the status poller.
type TokenStatusHandler struct {
	svc tokenstatus.Service
}

func NewTokenStatusHandler(svc tokenstatus.Service) *TokenStatusHandler {
	return &TokenStatusHandler{svc: svc}
}

type tokenStatusResponse struct {
	Status  string  `json:"status"`
	Message *string `json:"message,omitempty"`
}

func (h *TokenStatusHandler) Check(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	fid, err := strconv.ParseInt(r.URL.Query().Get("fid"), 10, 64)
	if err != nil || fid <= 0 {
		writeError(w, http.StatusBadRequest, "fid is required")
		return
	}

	status, err := h.svc.Poll(r.Context(), ticker, fid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenStatusResponse{Status: status.Status, Message: status.Message})
}
