package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound         = errors.New("not found")
	ErrBadRequest       = errors.New("bad request")
	ErrRateLimited      = errors.New("rate limited")
	ErrDeliveryFailed   = errors.New("all notification attempts failed")
	ErrInvalidSignature = errors.New("invalid signature")
)
