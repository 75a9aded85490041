package domain

import "time"

// Token request lifecycle. Once a request reaches a terminal status it is
// never re-evaluated.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// TokenRequest is a user's request to have the bot create a token.
// A request is identified by (ticker, fid) for lookup purposes.
type TokenRequest struct {
	RequestID string     `json:"id" dynamodbav:"request_id"`
	Ticker    string     `json:"ticker" dynamodbav:"ticker"`
	Name      string     `json:"name" dynamodbav:"name"`
	Image     *string    `json:"image,omitempty" dynamodbav:"image"`
	Channel   string     `json:"channel" dynamodbav:"channel"`
	FID       int64      `json:"fid" dynamodbav:"fid"`
	Status    string     `json:"status" dynamodbav:"status"`
	Message   *string    `json:"message,omitempty" dynamodbav:"message"`
	CreatedAt time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" dynamodbav:"updated_at"`
}

// CreateTokenRequestInput is the POST /api/token-request body.
type CreateTokenRequestInput struct {
	Ticker  string  `json:"ticker" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Image   *string `json:"image,omitempty"`
	Channel string  `json:"channel" validate:"required"`
	FID     int64   `json:"fid" validate:"required"`
}

// TokenStatus is the poller's answer for a (ticker, fid) pair.
type TokenStatus struct {
	Status  string  `json:"status"`
	Message *string `json:"message,omitempty"`
}

// Terminal reports whether the status can no longer change.
func (s TokenStatus) Terminal() bool {
	return s.Status == StatusSuccess || s.Status == StatusFailed
}
