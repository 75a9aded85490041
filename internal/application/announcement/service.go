package announcement

import (
	"context"
	"errors"
	"fmt"

	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/rs/zerolog/log"
)

// Service compares a user's last-seen announcement marker against the latest
// announcement and pushes a notification when the user is behind.
type Service interface {
	List(ctx context.Context) ([]domain.Announcement, error)
	// CheckAndNotify returns the user's marker and the latest announcement.
	// It returns domain.ErrRateLimited (alongside the result) when the push
	// endpoint rate-limited the delivery; the marker is not advanced and the
	// caller is expected to retry.
	CheckAndNotify(ctx context.Context, fid int64) (*CheckResult, error)
}

// CheckResult mirrors the POST /api/announcements response body.
type CheckResult struct {
	LastSeenID *int64               `json:"lastSeenId"`
	Latest     *domain.Announcement `json:"latestAnnouncement"`
}

type announcementStore interface {
	List(ctx context.Context) ([]domain.Announcement, error)
	GetLatest(ctx context.Context) (*domain.Announcement, error)
}

type markerCache interface {
	GetLastSeenAnnouncementID(ctx context.Context, fid int64) (int64, bool, error)
	SetLastSeenAnnouncementID(ctx context.Context, fid, announcementID int64) error
}

type notifier interface {
	Deliver(ctx context.Context, fid int64, p domain.NotificationPayload, skipRateLimit bool) error
}

type service struct {
	store     announcementStore
	markers   markerCache
	notifier  notifier
	targetURL string
}

func NewService(store announcementStore, markers markerCache, notifier notifier, targetURL string) Service {
	return &service{store: store, markers: markers, notifier: notifier, targetURL: targetURL}
}

func (s *service) List(ctx context.Context) ([]domain.Announcement, error) {
	return s.store.List(ctx)
}

func (s *service) CheckAndNotify(ctx context.Context, fid int64) (*CheckResult, error) {
	lastSeen, seen, err := s.markers.GetLastSeenAnnouncementID(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("last-seen marker: %w", err)
	}

	result := &CheckResult{}
	if seen {
		result.LastSeenID = &lastSeen
	}

	latest, err := s.store.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Nothing published yet; nothing to notify.
			return result, nil
		}
		return nil, fmt.Errorf("latest announcement: %w", err)
	}
	result.Latest = latest

	if seen && lastSeen >= latest.ID {
		return result, nil
	}

	payload := domain.NotificationPayload{
		NotificationID: fmt.Sprintf("announcement:%d", latest.ID),
		Title:          latest.Title,
		Body:           latest.Text,
		TargetURL:      s.targetURL,
	}
	err = s.notifier.Deliver(ctx, fid, payload, false)
	switch {
	case err == nil:
		// The marker only advances after a confirmed delivery.
		if err := s.markers.SetLastSeenAnnouncementID(ctx, fid, latest.ID); err != nil {
			return nil, fmt.Errorf("advance marker: %w", err)
		}
	case errors.Is(err, domain.ErrRateLimited):
		// Leave the marker where it is; the next call retries from the
		// same state.
		return result, err
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDeliveryFailed):
		// Undeliverable is not an error for this flow: the user simply has
		// no working token right now.
		log.Debug().Err(err).Int64("fid", fid).Msg("announcement not delivered")
	default:
		return nil, err
	}

	return result, nil
}
