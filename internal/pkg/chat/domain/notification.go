package chat

import "time"

// NotificationType distinguishes the social actions that produce a
// notification row.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationShare   NotificationType = "share"
	NotificationFollow  NotificationType = "follow"
	NotificationMessage NotificationType = "message"
)

// Notification is a row on the notifications screen and the payload of the
// new_notification realtime event.
type Notification struct {
	ID        string           `json:"_id"`
	Type      NotificationType `json:"type"`
	Actor     User             `json:"actor"`
	Text      string           `json:"text"`
	TargetID  string           `json:"targetId,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
