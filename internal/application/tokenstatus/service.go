package tokenstatus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/nonomnouns/clankpad/internal/infrastructure/neynar"
	"github.com/rs/zerolog/log"
)

const (
	// requestMarker identifies token-creation request casts in the user's
	// cast history.
	requestMarker = "Hey @clankpad"

	castPageSize = 10
	replyDepth   = 5
)

// successPhrases mark a bot reply as a successful creation. This is a
// best-effort heuristic: the bot does not expose a structured response, so
// phrasing drift can produce false negatives.
var successPhrases = []string{
	"has been created",
	"has been added to the competition",
	"🎉",
}

// Service is the status poller: it resolves the pending -> success|failed
// transition for a (ticker, fid) request by reading the bot's reply on the
// social protocol.
type Service interface {
	Poll(ctx context.Context, ticker string, fid int64) (domain.TokenStatus, error)
}

type requestStore interface {
	GetByTickerFID(ctx context.Context, ticker string, fid int64) (*domain.TokenRequest, error)
	SetTerminalStatus(ctx context.Context, ticker string, fid int64, status, message string) error
}

type socialClient interface {
	CastsByFID(ctx context.Context, fid int64, pageSize int) ([]neynar.Cast, error)
	CastConversation(ctx context.Context, castHash string, replyDepth int) ([]neynar.Reply, error)
}

type notifier interface {
	Deliver(ctx context.Context, fid int64, p domain.NotificationPayload, skipRateLimit bool) error
}

type service struct {
	requests  requestStore
	social    socialClient
	notifier  notifier
	botFID    int64
	targetURL string
}

func NewService(requests requestStore, social socialClient, notifier notifier, botFID int64, targetURL string) Service {
	return &service{
		requests:  requests,
		social:    social,
		notifier:  notifier,
		botFID:    botFID,
		targetURL: targetURL,
	}
}

func (s *service) Poll(ctx context.Context, ticker string, fid int64) (domain.TokenStatus, error) {
	// A terminal status is never re-evaluated; this short-circuit is the
	// idempotence guarantee and must happen before any external call.
	req, err := s.requests.GetByTickerFID(ctx, ticker, fid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenStatus{Status: domain.StatusPending}, nil
		}
		return domain.TokenStatus{}, err
	}
	current := domain.TokenStatus{Status: req.Status, Message: req.Message}
	if current.Terminal() {
		return current, nil
	}

	casts, err := s.social.CastsByFID(ctx, fid, castPageSize)
	if err != nil {
		return domain.TokenStatus{}, fmt.Errorf("fetch casts: %w", err)
	}
	requestCast := findRequestCast(casts, ticker)
	if requestCast == nil {
		// The request has not reached the protocol indexer yet.
		return domain.TokenStatus{Status: domain.StatusPending}, nil
	}

	replies, err := s.social.CastConversation(ctx, requestCast.Hash, replyDepth)
	if err != nil {
		return domain.TokenStatus{}, fmt.Errorf("fetch conversation: %w", err)
	}
	reply := s.findBotReply(replies)
	if reply == nil {
		// The bot has not responded yet.
		return domain.TokenStatus{Status: domain.StatusPending}, nil
	}

	status := classifyReply(reply.Text)
	message := reply.Text

	if err := s.requests.SetTerminalStatus(ctx, ticker, fid, status, message); err != nil {
		return domain.TokenStatus{}, fmt.Errorf("persist status: %w", err)
	}

	// Notification is best-effort on top of the durably recorded outcome;
	// a dispatch failure never rolls back the persisted classification.
	if err := s.notifier.Deliver(ctx, fid, s.statusPayload(ticker, status, message), false); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Int64("fid", fid).Msg("status notification failed")
	}

	return domain.TokenStatus{Status: status, Message: &message}, nil
}

func findRequestCast(casts []neynar.Cast, ticker string) *neynar.Cast {
	marker := "Ticker: " + ticker
	for i := range casts {
		text := casts[i].Data.CastAddBody.Text
		if strings.Contains(text, requestMarker) && strings.Contains(text, marker) {
			return &casts[i]
		}
	}
	return nil
}

func (s *service) findBotReply(replies []neynar.Reply) *neynar.Reply {
	for i := range replies {
		if replies[i].Author.FID == s.botFID {
			return &replies[i]
		}
	}
	return nil
}

func classifyReply(text string) string {
	lower := strings.ToLower(text)
	for _, phrase := range successPhrases {
		if strings.Contains(lower, phrase) {
			return domain.StatusSuccess
		}
	}
	return domain.StatusFailed
}

func (s *service) statusPayload(ticker, status, message string) domain.NotificationPayload {
	if status == domain.StatusSuccess {
		return domain.NotificationPayload{
			NotificationID: "token-created:" + ticker,
			Title:          "Token Created Successfully! 🎉",
			Body:           fmt.Sprintf("Your token %s has been created and added to the competition.", ticker),
			TargetURL:      s.targetURL,
		}
	}
	return domain.NotificationPayload{
		NotificationID: "token-failed:" + ticker,
		Title:          "Token Creation Failed",
		Body:           fmt.Sprintf("We couldn't create your token %s. %s", ticker, message),
		TargetURL:      s.targetURL,
	}
}
