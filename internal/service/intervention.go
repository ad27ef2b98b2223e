package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"maintenance-backend/internal/apperr"
	"maintenance-backend/internal/authz"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

// Notifier is told when an intervention gains an assigned technician.
// Delivery is best-effort and asynchronous; a nil Notifier disables it.
type Notifier interface {
	InterventionAssigned(interventionID int64)
}

// Interventions manages maintenance jobs.
type Interventions struct {
	store    store.Store
	notifier Notifier
}

// NewInterventions creates the intervention service.
func NewInterventions(s store.Store, n Notifier) *Interventions {
	return &Interventions{store: s, notifier: n}
}

// InterventionInput is the create/admin-update payload. Nil machineId or
// technicianId means unassigned; on update nil explicitly clears the
// association.
type InterventionInput struct {
	Description  string                   `json:"description"`
	Priority     model.Priority           `json:"priority"`
	Status       model.InterventionStatus `json:"status"`
	MachineID    *int64                   `json:"machineId"`
	TechnicianID *int64                   `json:"technicianId"`
}

// TechnicianUpdateInput is the restricted partial-update payload. Only
// status and a non-blank description may change through this path.
type TechnicianUpdateInput struct {
	Status      *model.InterventionStatus `json:"status"`
	Description *string                   `json:"description"`
}

func (s *Interventions) validate(ctx context.Context, in InterventionInput) error {
	if !in.Priority.Valid() {
		return apperr.Validation("priority must be one of LOW, MEDIUM, HIGH")
	}
	if !in.Status.Valid() {
		return apperr.Validation("status must be one of PENDING, IN_PROGRESS, DONE, CANCELLED")
	}
	if in.MachineID != nil {
		if _, err := s.store.MachineByID(ctx, *in.MachineID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("machine %d not found", *in.MachineID)
			}
			return err
		}
	}
	if in.TechnicianID != nil {
		technician, err := s.store.UserByID(ctx, *in.TechnicianID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("technician %d not found", *in.TechnicianID)
			}
			return err
		}
		if technician.Role != model.RoleTechnician {
			return apperr.Validation("user %d is not a technician", *in.TechnicianID)
		}
	}
	return nil
}

// Create resolves all referenced records before persisting; nothing is
// written if any reference is absent.
func (s *Interventions) Create(ctx context.Context, in InterventionInput) (*InterventionView, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	intervention := model.Intervention{
		Description:  in.Description,
		Priority:     in.Priority,
		Status:       in.Status,
		MachineID:    in.MachineID,
		TechnicianID: in.TechnicianID,
	}
	if err := s.store.CreateIntervention(ctx, &intervention); err != nil {
		return nil, err
	}
	if in.TechnicianID != nil && s.notifier != nil {
		s.notifier.InterventionAssigned(intervention.ID)
	}
	return s.byID(ctx, intervention.ID)
}

// All returns every intervention, admin scope.
func (s *Interventions) All(ctx context.Context) ([]InterventionView, error) {
	interventions, err := s.store.Interventions(ctx)
	if err != nil {
		return nil, err
	}
	return views(interventions), nil
}

// ByTechnician returns the interventions assigned to one technician.
func (s *Interventions) ByTechnician(ctx context.Context, technicianID int64) ([]InterventionView, error) {
	interventions, err := s.store.InterventionsByTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	return views(interventions), nil
}

// ByIDFor returns one intervention, enforcing the record-level rule: a
// technician may only read interventions assigned to them.
func (s *Interventions) ByIDFor(ctx context.Context, id int64, caller *model.User) (*InterventionView, error) {
	intervention, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewIntervention(caller.Role, caller.ID, intervention.TechnicianID) {
		return nil, apperr.Forbidden("intervention %d is not assigned to you", id)
	}
	v := interventionView(intervention)
	return &v, nil
}

// Update is the admin full replace. Nil foreign keys clear the
// associations; non-nil ones are re-resolved exactly as on create.
func (s *Interventions) Update(ctx context.Context, id int64, in InterventionInput) (*InterventionView, error) {
	intervention, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	previous := intervention.TechnicianID
	intervention.Description = in.Description
	intervention.Priority = in.Priority
	intervention.Status = in.Status
	intervention.MachineID = in.MachineID
	intervention.TechnicianID = in.TechnicianID
	if err := s.store.SaveIntervention(ctx, intervention); err != nil {
		return nil, err
	}

	if in.TechnicianID != nil && (previous == nil || *previous != *in.TechnicianID) && s.notifier != nil {
		s.notifier.InterventionAssigned(id)
	}
	return s.byID(ctx, id)
}

// TechnicianUpdate applies the restricted partial update. Ownership is
// re-checked here even though the caller has already been authorized.
func (s *Interventions) TechnicianUpdate(ctx context.Context, id int64, in TechnicianUpdateInput, caller *model.User) (*InterventionView, error) {
	intervention, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanUpdateAsTechnician(caller.ID, intervention.TechnicianID) {
		return nil, apperr.Forbidden("intervention %d is not assigned to you", id)
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.Validation("status must be one of PENDING, IN_PROGRESS, DONE, CANCELLED")
		}
		intervention.Status = *in.Status
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		intervention.Description = *in.Description
	}

	if err := s.store.SaveIntervention(ctx, intervention); err != nil {
		return nil, err
	}
	return s.byID(ctx, id)
}

// Delete removes an intervention.
func (s *Interventions) Delete(ctx context.Context, id int64) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteIntervention(ctx, id)
}

func (s *Interventions) load(ctx context.Context, id int64) (*model.Intervention, error) {
	intervention, err := s.store.InterventionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("intervention %d not found", id)
		}
		return nil, err
	}
	return intervention, nil
}

func (s *Interventions) byID(ctx context.Context, id int64) (*InterventionView, error) {
	intervention, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	v := interventionView(intervention)
	return &v, nil
}

func views(interventions []model.Intervention) []InterventionView {
	out := make([]InterventionView, 0, len(interventions))
	for i := range interventions {
		out = append(out, interventionView(&interventions[i]))
	}
	return out
}
