package domain

// Webhook event names defined by the frame protocol.
const (
	EventFrameAdded            = "frame_added"
	EventFrameRemoved          = "frame_removed"
	EventNotificationsEnabled  = "notifications_enabled"
	EventNotificationsDisabled = "notifications_disabled"
)

// FrameNotificationDetails carries the delivery credential handed out when a
// user adds the frame.
type FrameNotificationDetails struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// WebhookEvent is the decoded payload of a signed protocol event. The fid is
// taken from the verified signature header, not the payload.
type WebhookEvent struct {
	Event               string                    `json:"event"`
	FID                 int64                     `json:"-"`
	NotificationDetails *FrameNotificationDetails `json:"notificationDetails,omitempty"`
}
