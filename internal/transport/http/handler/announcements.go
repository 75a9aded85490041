package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nonomnouns/clankpad/internal/application/announcement"
	"github.com/nonomnouns/clankpad/internal/domain"
)

// AnnouncementHandler serves the announcement feed and the per-user
// catch-up check.
type AnnouncementHandler struct {
	svc announcement.Service
}

func NewAnnouncementHandler(svc announcement.Service) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []domain.Announcement{}
	}
	writeJSON(w, http.StatusOK, items)
}

type checkAnnouncementsRequest struct {
	FID int64 `json:"fid"`
}

type checkAnnouncementsResponse struct {
	Success    bool                 `json:"success"`
	Error      string               `json:"error,omitempty"`
	LastSeenID *int64               `json:"lastSeenId"`
	Latest     *domain.Announcement `json:"latestAnnouncement"`
}

// Check compares the caller's last-seen marker against the latest
// announcement and pushes a notification when the caller is behind. A
// rate-limited delivery is surfaced as 429 so the client retries later.
func (h *AnnouncementHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkAnnouncementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FID <= 0 {
		writeError(w, http.StatusBadRequest, "fid is required")
		return
	}

	result, err := h.svc.CheckAndNotify(r.Context(), req.FID)
	if err != nil {
		// A rate-limited delivery still returns the marker state so the
		// client can render the feed and retry the push later.
		if errors.Is(err, domain.ErrRateLimited) && result != nil {
			writeJSON(w, http.StatusTooManyRequests, checkAnnouncementsResponse{
				Error:      "rate limited",
				LastSeenID: result.LastSeenID,
				Latest:     result.Latest,
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkAnnouncementsResponse{
		Success:    true,
		LastSeenID: result.LastSeenID,
		Latest:     result.Latest,
	})
}
