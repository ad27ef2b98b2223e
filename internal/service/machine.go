package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"maintenance-backend/internal/apperr"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

// Machines manages equipment records.
type Machines struct {
	store store.Store
}

// NewMachines creates the machine service.
func NewMachines(s store.Store) *Machines {
	return &Machines{store: s}
}

// MachineInput is the create/update payload for a machine. A nil ClientID
// on update explicitly clears the association.
type MachineInput struct {
	Name         string              `json:"name"`
	SerialNumber string              `json:"serialNumber"`
	Status       model.MachineStatus `json:"status"`
	ClientID     *int64              `json:"clientId"`
}

func (s *Machines) validate(ctx context.Context, in MachineInput) error {
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if !in.Status.Valid() {
		return apperr.Validation("status must be one of ACTIVE, BROKEN, UNDER_REPAIR")
	}
	if in.ClientID != nil {
		if _, err := s.store.ClientByID(ctx, *in.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("client %d not found", *in.ClientID)
			}
			return err
		}
	}
	return nil
}

// Create resolves the referenced client (when supplied) before persisting;
// nothing is written if the reference does not exist.
func (s *Machines) Create(ctx context.Context, in MachineInput) (*MachineView, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	machine := model.Machine{
		Name:         in.Name,
		SerialNumber: in.SerialNumber,
		Status:       in.Status,
		ClientID:     in.ClientID,
	}
	if err := s.store.CreateMachine(ctx, &machine); err != nil {
		return nil, err
	}
	return s.ByID(ctx, machine.ID)
}

// All returns every machine in insertion order.
func (s *Machines) All(ctx context.Context) ([]MachineView, error) {
	machines, err := s.store.Machines(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]MachineView, 0, len(machines))
	for i := range machines {
		views = append(views, machineView(&machines[i]))
	}
	return views, nil
}

// ByID returns one machine with its owner's name resolved.
func (s *Machines) ByID(ctx context.Context, id int64) (*MachineView, error) {
	machine, err := s.store.MachineByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("machine %d not found", id)
		}
		return nil, err
	}
	v := machineView(machine)
	return &v, nil
}

// Update replaces the mutable fields. A nil clientId clears the owner; a
// non-nil one is re-validated exactly as on create.
func (s *Machines) Update(ctx context.Context, id int64, in MachineInput) (*MachineView, error) {
	machine, err := s.store.MachineByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("machine %d not found", id)
		}
		return nil, err
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	machine.Name = in.Name
	machine.SerialNumber = in.SerialNumber
	machine.Status = in.Status
	machine.ClientID = in.ClientID
	if err := s.store.SaveMachine(ctx, machine); err != nil {
		return nil, err
	}
	return s.ByID(ctx, id)
}

// Delete removes a machine and cascades to its interventions.
func (s *Machines) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.MachineByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("machine %d not found", id)
		}
		return err
	}
	return s.store.DeleteMachine(ctx, id)
}
