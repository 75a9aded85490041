package tokenrequest

import (
	"context"
	"time"

	"github.com/nonomnouns/clankpad/internal/domain"
	"github.com/nonomnouns/clankpad/internal/pkg/id"
)

// Service records token-creation requests. Requests are created pending and
// only the status poller moves them to a terminal status.
type Service interface {
	Create(ctx context.Context, input domain.CreateTokenRequestInput) (*domain.TokenRequest, error)
	Delete(ctx context.Context, ticker string, fid int64) error
}

type requestStore interface {
	Put(ctx context.Context, req *domain.TokenRequest) error
	Delete(ctx context.Context, ticker string, fid int64) error
}

type service struct {
	requests requestStore
}

func NewService(requests requestStore) Service {
	return &service{requests: requests}
}

func (s *service) Create(ctx context.Context, input domain.CreateTokenRequestInput) (*domain.TokenRequest, error) {
	req := &domain.TokenRequest{
		RequestID: id.New(),
		Ticker:    input.Ticker,
		Name:      input.Name,
		Image:     input.Image,
		Channel:   input.Channel,
		FID:       input.FID,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.requests.Put(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) Delete(ctx context.Context, ticker string, fid int64) error {
	return s.requests.Delete(ctx, ticker, fid)
}
