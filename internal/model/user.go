package model

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTechnician
}

// User is an administrator or technician account.
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"uniqueIndex;size:256;not null"`
	Password  string `gorm:"size:128;not null"`
	Role      Role   `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
