package model

import "time"

// Priority is the urgency of an intervention.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// InterventionStatus is the lifecycle state of an intervention.
type InterventionStatus string

const (
	InterventionPending    InterventionStatus = "PENDING"
	InterventionInProgress InterventionStatus = "IN_PROGRESS"
	InterventionDone       InterventionStatus = "DONE"
	InterventionCancelled  InterventionStatus = "CANCELLED"
)

// Valid reports whether s is a known intervention status.
func (s InterventionStatus) Valid() bool {
	switch s {
	case InterventionPending, InterventionInProgress, InterventionDone, InterventionCancelled:
		return true
	}
	return false
}

// Intervention is a maintenance job, optionally tied to a machine and
// optionally assigned to a technician. CreatedAt is set once at creation.
type Intervention struct {
	ID           int64              `gorm:"primaryKey"`
	Description  string             `gorm:"size:2048"`
	Priority     Priority           `gorm:"size:16;not null"`
	Status       InterventionStatus `gorm:"size:32;not null"`
	MachineID    *int64             `gorm:"index"`
	TechnicianID *int64             `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Associations
	Machine    *Machine `gorm:"foreignKey:MachineID"`
	Technician *User    `gorm:"foreignKey:TechnicianID"`
}
