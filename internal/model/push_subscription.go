package model

import "time"

// PushSubscription holds a browser push subscription registered by a user.
// A user may register several (one per browser).
type PushSubscription struct {
	Endpoint  string `gorm:"primaryKey"`
	P256DH    string `gorm:"column:p256dh;not null"`
	Auth      string `gorm:"not null"`
	UserID    int64  `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
