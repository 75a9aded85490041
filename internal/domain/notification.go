package domain

import "time"

// NotificationToken is an opaque delivery credential plus the endpoint URL
// it must be posted to. The durable store keys tokens by (fid, token); the
// ephemeral cache mirrors at most one token per fid with a 24h expiry.
type NotificationToken struct {
	FID       int64     `json:"fid" dynamodbav:"fid"`
	Token     string    `json:"token" dynamodbav:"token"`
	URL       string    `json:"url" dynamodbav:"url"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// NotificationPayload is what gets posted to a token's delivery URL.
type NotificationPayload struct {
	NotificationID string `json:"notificationId"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	TargetURL      string `json:"targetUrl"`
}

// DeliveryResult is the push endpoint's per-token outcome classification.
// The three buckets are disjoint.
type DeliveryResult struct {
	SuccessfulTokens  []string `json:"successfulTokens"`
	InvalidTokens     []string `json:"invalidTokens"`
	RateLimitedTokens []string `json:"rateLimitedTokens"`
}

// SendNotificationInput is the POST /api/notifications body. Length limits
// come from the frame notification contract.
type SendNotificationInput struct {
	FID            int64  `json:"fid" validate:"required"`
	Title          string `json:"title" validate:"required,max=32"`
	Body           string `json:"body" validate:"required,max=128"`
	NotificationID string `json:"notificationId" validate:"required,max=128"`
}
