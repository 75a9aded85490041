package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/rs/zerolog/log"
)

// Service processes signed frame lifecycle events: it keeps the stored
// delivery token in sync with the user's install state and welcomes new
// installs with a push.
type Service interface {
	Process(ctx context.Context, raw []byte) error
}

type eventVerifier interface {
	VerifyAndParse(ctx context.Context, raw []byte) (*domain.WebhookEvent, error)
}

type tokenStore interface {
	Upsert(ctx context.Context, t *domain.NotificationToken) error
	DeleteByFID(ctx context.Context, fid int64) error
}

type tokenCache interface {
	SetNotificationToken(ctx context.Context, fid int64, token, url string) error
	RemoveNotificationToken(ctx context.Context, fid int64) error
}

type pushSender interface {
	Send(ctx context.Context, url, token string, p domain.NotificationPayload) (*domain.DeliveryResult, error)
}

type service struct {
	verifier  eventVerifier
	tokens    tokenStore
	cache     tokenCache
	sender    pushSender
	targetURL string
}

func NewService(verifier eventVerifier, tokens tokenStore, cache tokenCache, sender pushSender, targetURL string) Service {
	return &service{
		verifier:  verifier,
		tokens:    tokens,
		cache:     cache,
		sender:    sender,
		targetURL: targetURL,
	}
}

func (s *service) Process(ctx context.Context, raw []byte) error {
	event, err := s.verifier.VerifyAndParse(ctx, raw)
	if err != nil {
		return err
	}

	switch event.Event {
	case domain.EventFrameAdded, domain.EventNotificationsEnabled:
		if event.NotificationDetails == nil {
			return nil
		}
		return s.enableNotifications(ctx, event.FID, event.NotificationDetails)
	case domain.EventFrameRemoved, domain.EventNotificationsDisabled:
		return s.disableNotifications(ctx, event.FID)
	default:
		log.Debug().Str("event", event.Event).Int64("fid", event.FID).Msg("ignoring webhook event")
		return nil
	}
}

func (s *service) enableNotifications(ctx context.Context, fid int64, details *domain.FrameNotificationDetails) error {
	t := &domain.NotificationToken{
		FID:       fid,
		Token:     details.Token,
		URL:       details.URL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tokens.Upsert(ctx, t); err != nil {
		return fmt.Errorf("store notification token: %w", err)
	}

	// Mirror into the cache; the durable record is authoritative, so a cache
	// failure only costs a store lookup later.
	if err := s.cache.SetNotificationToken(ctx, fid, details.Token, details.URL); err != nil {
		log.Warn().Err(err).Int64("fid", fid).Msg("failed to cache notification token")
	}

	// The welcome push is best-effort on top of the durable write.
	welcome := domain.NotificationPayload{
		NotificationID: fmt.Sprintf("welcome:%d", fid),
		Title:          "Welcome to Clankpad! 👋",
		Body:           "Thanks for adding Clankpad. You will receive notifications for successful token creations and announcements.",
		TargetURL:      s.targetURL,
	}
	if _, err := s.sender.Send(ctx, details.URL, details.Token, welcome); err != nil {
		log.Warn().Err(err).Int64("fid", fid).Msg("welcome notification failed")
	}
	return nil
}

func (s *service) disableNotifications(ctx context.Context, fid int64) error {
	if err := s.tokens.DeleteByFID(ctx, fid); err != nil {
		return fmt.Errorf("delete notification tokens: %w", err)
	}
	if err := s.cache.RemoveNotificationToken(ctx, fid); err != nil {
		log.Warn().Err(err).Int64("fid", fid).Msg("failed to drop cached notification token")
	}
	return nil
}
