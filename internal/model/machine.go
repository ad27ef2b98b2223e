package model

import "time"

// MachineStatus is the operational state of a machine.
type MachineStatus string

const (
	MachineActive      MachineStatus = "ACTIVE"
	MachineBroken      MachineStatus = "BROKEN"
	MachineUnderRepair MachineStatus = "UNDER_REPAIR"
)

// Valid reports whether s is a known machine status.
func (s MachineStatus) Valid() bool {
	return s == MachineActive || s == MachineBroken || s == MachineUnderRepair
}

// Machine is a piece of equipment, optionally owned by a client.
// A nil ClientID means the machine is unassigned.
type Machine struct {
	ID           int64         `gorm:"primaryKey"`
	Name         string        `gorm:"size:256;not null"`
	SerialNumber string        `gorm:"size:64"`
	Status       MachineStatus `gorm:"size:32;not null"`
	ClientID     *int64        `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Client        *Client        `gorm:"foreignKey:ClientID"`
	Interventions []Intervention `gorm:"foreignKey:MachineID"`
}
