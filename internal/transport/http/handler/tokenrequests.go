package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nonomnouns/clankpad/internal/application/tokenrequest"
	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/nonomnouns/clankpad/internal/pkg/validate"
)

// TokenRequestHandler records and withdraws token-creation requests.
type TokenRequestHandler struct {
	svc tokenrequest.Service
}

func NewTokenRequestHandler(svc tokenrequest.Service) *TokenRequestHandler {
	return &TokenRequestHandler{svc: svc}
}

func (h *TokenRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTokenRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validate.Struct(req); len(msgs) > 0 {
		writeError(w, http.StatusBadRequest, strings.Join(msgs, "; "))
		return
	}

	if _, err := h.svc.Create(r.Context(), req); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true})
}

type deleteTokenRequestBody struct {
	Ticker string `json:"ticker"`
	FID    int64  `json:"fid"`
}

func (h *TokenRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteTokenRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Ticker == "" || req.FID <= 0 {
		writeError(w, http.StatusBadRequest, "ticker and fid are required")
		return
	}

	if err := h.svc.Delete(r.Context(), req.Ticker, req.FID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true})
}
