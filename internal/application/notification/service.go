package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/rs/zerolog/log"
)

// Service is the notification dispatcher: it resolves a delivery token for a
// fid (cache first, durable store second) and posts the payload to the
// token's delivery endpoint.
type Service interface {
	// Deliver returns nil when at least one delivery attempt succeeded.
	// It returns domain.ErrNotFound when no tokens exist for the fid,
	// domain.ErrRateLimited when the endpoint rate-limited every attempt and
	// the caller did not opt out, and domain.ErrDeliveryFailed when all
	// attempts failed for other reasons.
	Deliver(ctx context.Context, fid int64, p domain.NotificationPayload, skipRateLimit bool) error
}

type tokenStore interface {
	ListByFID(ctx context.Context, fid int64) ([]domain.NotificationToken, error)
	DeleteByFID(ctx context.Context, fid int64) error
}

type tokenCache interface {
	GetNotificationToken(ctx context.Context, fid int64) (*domain.NotificationToken, error)
	RemoveNotificationToken(ctx context.Context, fid int64) error
}

type pushSender interface {
	Send(ctx context.Context, url, token string, p domain.NotificationPayload) (*domain.DeliveryResult, error)
}

type service struct {
	tokens tokenStore
	cache  tokenCache
	sender pushSender
}

func NewService(tokens tokenStore, cache tokenCache, sender pushSender) Service {
	return &service{tokens: tokens, cache: cache, sender: sender}
}

func (s *service) Deliver(ctx context.Context, fid int64, p domain.NotificationPayload, skipRateLimit bool) error {
	cached, err := s.cache.GetNotificationToken(ctx, fid)
	if err != nil {
		return fmt.Errorf("cached token lookup: %w", err)
	}
	if cached != nil {
		delivered, err := s.attempt(ctx, fid, cached.URL, cached.Token, p, skipRateLimit)
		if err != nil {
			return err
		}
		if delivered {
			return nil
		}
		// The cached token did not deliver; retry against the full durable list.
	}

	tokens, err := s.tokens.ListByFID(ctx, fid)
	if err != nil {
		return fmt.Errorf("list tokens: %w", err)
	}
	if len(tokens) == 0 {
		return fmt.Errorf("no notification tokens for fid %d: %w", fid, domain.ErrNotFound)
	}

	// Attempt every token concurrently; one token's failure must not abort
	// the others. The first success wins, with no ordering guarantee.
	type outcome struct {
		delivered bool
		err       error
	}
	results := make(chan outcome, len(tokens))
	var wg sync.WaitGroup
	for _, t := range tokens {
		wg.Add(1)
		go func(t domain.NotificationToken) {
			defer wg.Done()
			delivered, err := s.attempt(ctx, fid, t.URL, t.Token, p, skipRateLimit)
			results <- outcome{delivered: delivered, err: err}
		}(t)
	}
	wg.Wait()
	close(results)

	var rateLimited bool
	for res := range results {
		if res.delivered {
			return nil
		}
		switch {
		case errors.Is(res.err, domain.ErrRateLimited):
			rateLimited = true
		case res.err != nil:
			log.Warn().Err(res.err).Int64("fid", fid).Msg("notification attempt failed")
		}
	}
	if rateLimited {
		return fmt.Errorf("fid %d: %w", fid, domain.ErrRateLimited)
	}
	return fmt.Errorf("fid %d: %w", fid, domain.ErrDeliveryFailed)
}

// attempt posts the payload to a single token and interprets the endpoint's
// outcome classification.
func (s *service) attempt(ctx context.Context, fid int64, url, token string, p domain.NotificationPayload, skipRateLimit bool) (bool, error) {
	result, err := s.sender.Send(ctx, url, token, p)
	if err != nil {
		return false, err
	}

	if len(result.InvalidTokens) > 0 {
		s.removeInvalidToken(ctx, fid)
	}
	if len(result.SuccessfulTokens) > 0 {
		return true, nil
	}
	if len(result.RateLimitedTokens) > 0 {
		if skipRateLimit {
			// Caller treats rate limiting as non-fatal and retries later.
			return true, nil
		}
		return false, fmt.Errorf("delivery to fid %d: %w", fid, domain.ErrRateLimited)
	}
	return false, nil
}

// removeInvalidToken is best-effort cleanup: failures are logged and never
// surfaced to the caller.
func (s *service) removeInvalidToken(ctx context.Context, fid int64) {
	if err := s.tokens.DeleteByFID(ctx, fid); err != nil {
		log.Warn().Err(err).Int64("fid", fid).Msg("failed to remove invalid token from store")
	}
	if err := s.cache.RemoveNotificationToken(ctx, fid); err != nil {
		log.Warn().Err(err).Int64("fid", fid).Msg("failed to remove invalid token from cache")
	}
}
