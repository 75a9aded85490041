package domain

import "time"

// Announcement is immutable once created; this service only reads them.
// IDs are monotonically increasing, so "latest" is the highest id.
type Announcement struct {
	ID        int64     `json:"id" dynamodbav:"id"`
	Title     string    `json:"title" dynamodbav:"title"`
	Text      string    `json:"text" dynamodbav:"text"`
	CastURL   *string   `json:"cast_url,omitempty" dynamodbav:"cast_url"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	// Feed is a constant partition key for the feed GSI so announcements
	// can be queried in id order without a table scan.
	Feed string `json:"-" dynamodbav:"feed"`
}
