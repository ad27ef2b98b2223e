package model

import "time"

// Client is a company owning zero or more machines.
type Client struct {
	ID          int64  `gorm:"primaryKey"`
	CompanyName string `gorm:"size:256;not null"`
	Address     string `gorm:"size:512"`
	Phone       string `gorm:"size:32"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	Machines []Machine `gorm:"foreignKey:ClientID"`
}
