package service

import (
	"time"

	"maintenance-backend/internal/model"
)

// The view types are the flattened wire shapes. Relations are carried as
// ids plus denormalized display names so the JSON never contains the
// cyclic entity graph (client↔machine, machine↔intervention).

// UserView is the wire shape of a user; it never carries the password hash.
type UserView struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// ClientView is the wire shape of a client.
type ClientView struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// MachineView is the wire shape of a machine.
type MachineView struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	SerialNumber string              `json:"serialNumber"`
	Status       model.MachineStatus `json:"status"`
	ClientID     *int64              `json:"clientId"`
	ClientName   *string             `json:"clientName"`
}

// InterventionView is the wire shape of an intervention.
type InterventionView struct {
	ID             int64                    `json:"id"`
	Description    string                   `json:"description"`
	Priority       model.Priority           `json:"priority"`
	Status         model.InterventionStatus `json:"status"`
	CreatedAt      time.Time                `json:"createdAt"`
	MachineID      *int64                   `json:"machineId"`
	MachineName    *string                  `json:"machineName"`
	TechnicianID   *int64                   `json:"technicianId"`
	TechnicianName *string                  `json:"technicianName"`
}

func userView(u *model.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func clientView(c *model.Client) ClientView {
	return ClientView{ID: c.ID, CompanyName: c.CompanyName, Address: c.Address, Phone: c.Phone}
}

func machineView(m *model.Machine) MachineView {
	v := MachineView{
		ID:           m.ID,
		Name:         m.Name,
		SerialNumber: m.SerialNumber,
		Status:       m.Status,
		ClientID:     m.ClientID,
	}
	if m.Client != nil {
		v.ClientName = &m.Client.CompanyName
	}
	return v
}

func interventionView(i *model.Intervention) InterventionView {
	v := InterventionView{
		ID:           i.ID,
		Description:  i.Description,
		Priority:     i.Priority,
		Status:       i.Status,
		CreatedAt:    i.CreatedAt,
		MachineID:    i.MachineID,
		TechnicianID: i.TechnicianID,
	}
	if i.Machine != nil {
		v.MachineName = &i.Machine.Name
	}
	if i.Technician != nil {
		v.TechnicianName = &i.Technician.Name
	}
	return v
}
