package models

import "time"

// SubscriberStatus is the lifecycle state of a newsletter subscriber.
type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

// SubscriberModel is one row per unique normalized email.
// SubscribedAt is set once at creation; unsubscribe/resubscribe cycles flip
// Status and overwrite Source but never touch SubscribedAt.
type SubscriberModel struct {
	Base
	Email        string           `json:"email"         gorm:"uniqueIndex;not null"`
	Status       SubscriberStatus `json:"status"        gorm:"type:varchar(16);default:active;index"`
	Source       string           `json:"source"        gorm:"type:varchar(64)"`
	SubscribedAt time.Time        `json:"subscribed_at" gorm:"index:idx_subscribers_subscribed_at,sort:desc"`
}

func (SubscriberModel) TableName() string { return "subscribers" }

// IsActive reports whether the subscriber receives fan-out notifications.
func (s *SubscriberModel) IsActive() bool { return s.Status == SubscriberActive }
