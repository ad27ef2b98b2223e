package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-backend/internal/apperr"
	"maintenance-backend/internal/model"
)

// recordingNotifier captures assignment dispatches.
type recordingNotifier struct {
	assigned []int64
}

func (n *recordingNotifier) InterventionAssigned(id int64) {
	n.assigned = append(n.assigned, id)
}

func TestInterventions_CreateResolvesReferences(t *testing.T) {
	s, gormDB := newTestStore(t)
	notifier := &recordingNotifier{}
	interventions := NewInterventions(s, notifier)
	ctx := context.Background()

	technician := seedTechnician(t, gormDB, "tech@example.com")
	machine := model.Machine{Name: "press", Status: model.MachineActive}
	require.NoError(t, gormDB.Create(&machine).Error)

	created, err := interventions.Create(ctx, InterventionInput{
		Description:  "replace belt",
		Priority:     model.PriorityHigh,
		Status:       model.InterventionPending,
		MachineID:    &machine.ID,
		TechnicianID: &technician.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, created.MachineName)
	assert.Equal(t, "press", *created.MachineName)
	require.NotNil(t, created.TechnicianName)
	assert.Equal(t, technician.Name, *created.TechnicianName)
	assert.False(t, created.CreatedAt.IsZero())

	assert.Equal(t, []int64{created.ID}, notifier.assigned, "assignment should be dispatched")
}

func TestInterventions_CreateWithUnknownMachine(t *testing.T) {
	s, gormDB := newTestStore(t)
	interventions := NewInterventions(s, nil)

	missing := int64(7)
	_, err := interventions.Create(context.Background(), InterventionInput{
		Description: "x",
		Priority:    model.PriorityLow,
		Status:      model.InterventionPending,
		MachineID:   &missing,
	})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindNotFound, ae.Kind)

	var count int64
	gormDB.Model(&model.Intervention{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestInterventions_CreateRejectsAdminAsTechnician(t *testing.T) {
	s, gormDB := newTestStore(t)
	interventions := NewInterventions(s, nil)

	admin := seedAdmin(t, gormDB, "boss@example.com")
	_, err := interventions.Create(context.Background(), InterventionInput{
		Description:  "x",
		Priority:     model.PriorityLow,
		Status:       model.InterventionPending,
		TechnicianID: &admin.ID,
	})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
}

func TestInterventions_ByIDForEnforcesOwnership(t *testing.T) {
	s, gormDB := newTestStore(t)
	interventions := NewInterventions(s, nil)
	ctx := context.Background()

	owner := seedTechnician(t, gormDB, "owner@example.com")
	other := seedTechnician(t, gormDB, "other@example.com")
	admin := seedAdmin(t, gormDB, "boss@example.com")

	created, err := interventions.Create(ctx, InterventionInput{
		Description:  "inspect",
		Priority:     model.PriorityMedium,
		Status:       model.InterventionPending,
		TechnicianID: &owner.ID,
	})
	require.NoError(t, err)

	_, err = interventions.ByIDFor(ctx, created.ID, owner)
	assert.NoError(t, err, "the assigned technician may read it")

	view, err := interventions.ByIDFor(ctx, created.ID, admin)
	assert.NoError(t, err, "admins bypass the ownership check")
	assert.Equal(t, created.ID, view.ID)

	_, err = interventions.ByIDFor(ctx, created.ID, other)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindForbidden, ae.Kind)
}

func TestInterventions_TechnicianUpdate(t *testing.T) {
	s, gormDB := newTestStore(t)
	interventions := NewInterventions(s, nil)
	ctx := context.Background()

	owner := seedTechnician(t, gormDB, "owner@example.com")
	other := seedTechnician(t, gormDB, "other@example.com")
	machine := model.Machine{Name: "press", Status: model.MachineActive}
	require.NoError(t, gormDB.Create(&machine).Error)

	created, err := interventions.Create(ctx, InterventionInput{
		Description:  "inspect",
		Priority:     model.PriorityMedium,
		Status:       model.InterventionPending,
		MachineID:    &machine.ID,
		TechnicianID: &owner.ID,
	})
	require.NoError(t, err)

	t.Run("not the assigned technician", func(t *testing.T) {
		status := model.InterventionDone
		_, err := interventions.TechnicianUpdate(ctx, created.ID, TechnicianUpdateInput{Status: &status}, other)
		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.KindForbidden, ae.Kind)
	})

	t.Run("only status and description change", func(t *testing.T) {
		status := model.InterventionInProgress
		description := "inspect and grease"
		updated, err := interventions.TechnicianUpdate(ctx, created.ID, TechnicianUpdateInput{
			Status:      &status,
			Description: &description,
		}, owner)
		require.NoError(t, err)

		assert.Equal(t, model.InterventionInProgress, updated.Status)
		assert.Equal(t, "inspect and grease", updated.Description)
		// Priority, machine, and technician are immutable through this path.
		assert.Equal(t, model.PriorityMedium, updated.Priority)
		assert.Equal(t, created.MachineID, updated.MachineID)
		assert.Equal(t, created.TechnicianID, updated.TechnicianID)
		assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
	})

	t.Run("blank description is ignored", func(t *testing.T) {
		blank := "   "
		updated, err := interventions.TechnicianUpdate(ctx, created.ID, TechnicianUpdateInput{Description: &blank}, owner)
		require.NoError(t, err)
		assert.Equal(t, "inspect and grease", updated.Description)
	})

	t.Run("unassigned intervention rejects technician update", func(t *testing.T) {
		unassigned, err := interventions.Create(ctx, InterventionInput{
			Description: "orphan",
			Priority:    model.PriorityLow,
			Status:      model.InterventionPending,
		})
		require.NoError(t, err)

		status := model.InterventionDone
		_, err = interventions.TechnicianUpdate(ctx, unassigned.ID, TechnicianUpdateInput{Status: &status}, owner)
		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, apperr.KindForbidden, ae.Kind)
	})
}

func TestInterventions_UpdateClearsAndReassigns(t *testing.T) {
	s, gormDB := newTestStore(t)
	notifier := &recordingNotifier{}
	interventions := NewInterventions(s, notifier)
	ctx := context.Background()

	first := seedTechnician(t, gormDB, "first@example.com")
	second := seedTechnician(t, gormDB, "second@example.com")

	created, err := interventions.Create(ctx, InterventionInput{
		Description:  "inspect",
		Priority:     model.PriorityMedium,
		Status:       model.InterventionPending,
		TechnicianID: &first.ID,
	})
	require.NoError(t, err)
	require.Len(t, notifier.assigned, 1)

	// Reassignment notifies the new technician.
	updated, err := interventions.Update(ctx, created.ID, InterventionInput{
		Description:  "inspect",
		Priority:     model.PriorityMedium,
		Status:       model.InterventionPending,
		TechnicianID: &second.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, &second.ID, updated.TechnicianID)
	assert.Len(t, notifier.assigned, 2)

	// A null technicianId clears the assignment without a notification.
	cleared, err := interventions.Update(ctx, created.ID, InterventionInput{
		Description: "inspect",
		Priority:    model.PriorityMedium,
		Status:      model.InterventionCancelled,
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.TechnicianID)
	assert.Nil(t, cleared.TechnicianName)
	assert.Len(t, notifier.assigned, 2)
}
