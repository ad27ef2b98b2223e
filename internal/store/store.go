package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"maintenance-backend/internal/model"
)

// Store defines the interface for all database operations.
// Lookup methods return gorm.ErrRecordNotFound (wrapped) when the record
// is absent; callers map that to their not-found condition.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *model.User) error
	Users(ctx context.Context) ([]model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	SaveUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id int64) error

	// Clients
	CreateClient(ctx context.Context, c *model.Client) error
	Clients(ctx context.Context) ([]model.Client, error)
	ClientByID(ctx context.Context, id int64) (*model.Client, error)
	SaveClient(ctx context.Context, c *model.Client) error
	DeleteClient(ctx context.Context, id int64) error

	// Machines
	CreateMachine(ctx context.Context, m *model.Machine) error
	Machines(ctx context.Context) ([]model.Machine, error)
	MachineByID(ctx context.Context, id int64) (*model.Machine, error)
	SaveMachine(ctx context.Context, m *model.Machine) error
	DeleteMachine(ctx context.Context, id int64) error

	// Interventions
	CreateIntervention(ctx context.Context, i *model.Intervention) error
	Interventions(ctx context.Context) ([]model.Intervention, error)
	InterventionByID(ctx context.Context, id int64) (*model.Intervention, error)
	InterventionsByTechnician(ctx context.Context, technicianID int64) ([]model.Intervention, error)
	SaveIntervention(ctx context.Context, i *model.Intervention) error
	DeleteIntervention(ctx context.Context, id int64) error

	// Push subscriptions
	UpsertSubscription(ctx context.Context, s *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsByUser(ctx context.Context, userID int64) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormStore) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormStore) UserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return &u, nil
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, fmt.Errorf("user %s: %w", email, err)
	}
	return &u, nil
}

func (s *gormStore) SaveUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

// DeleteUser removes a user together with their push subscriptions.
// Interventions still assigned to the user are unassigned, not deleted, in
// the same transaction.
func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Intervention{}).
			Where("technician_id = ?", id).
			Update("technician_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign interventions of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.PushSubscription{}).Error; err != nil {
			return fmt.Errorf("failed to delete subscriptions of user %d: %w", id, err)
		}
		return tx.Delete(&model.User{}, id).Error
	})
}

// --- Clients ---

func (s *gormStore) CreateClient(ctx context.Context, c *model.Client) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *gormStore) Clients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := s.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *gormStore) ClientByID(ctx context.Context, id int64) (*model.Client, error) {
	var c model.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, fmt.Errorf("client %d: %w", id, err)
	}
	return &c, nil
}

func (s *gormStore) SaveClient(ctx context.Context, c *model.Client) error {
	return s.db.WithContext(ctx).Save(c).Error
}

// DeleteClient removes a client, its machines, and the interventions of
// those machines as one transaction.
func (s *gormStore) DeleteClient(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var machineIDs []int64
		if err := tx.Model(&model.Machine{}).
			Where("client_id = ?", id).
			Pluck("id", &machineIDs).Error; err != nil {
			return fmt.Errorf("failed to list machines of client %d: %w", id, err)
		}
		if len(machineIDs) > 0 {
			if err := tx.Where("machine_id IN ?", machineIDs).
				Delete(&model.Intervention{}).Error; err != nil {
				return fmt.Errorf("failed to delete interventions of client %d: %w", id, err)
			}
			if err := tx.Delete(&model.Machine{}, machineIDs).Error; err != nil {
				return fmt.Errorf("failed to delete machines of client %d: %w", id, err)
			}
		}
		return tx.Delete(&model.Client{}, id).Error
	})
}

// --- Machines ---

func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *gormStore) Machines(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Preload("Client").Order("id").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

func (s *gormStore) MachineByID(ctx context.Context, id int64) (*model.Machine, error) {
	var m model.Machine
	if err := s.db.WithContext(ctx).Preload("Client").First(&m, id).Error; err != nil {
		return nil, fmt.Errorf("machine %d: %w", id, err)
	}
	return &m, nil
}

func (s *gormStore) SaveMachine(ctx context.Context, m *model.Machine) error {
	// Save would upsert the preloaded association too; persist columns only.
	return s.db.WithContext(ctx).Omit("Client").Save(m).Error
}

// DeleteMachine removes a machine and its interventions as one transaction.
func (s *gormStore) DeleteMachine(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("machine_id = ?", id).Delete(&model.Intervention{}).Error; err != nil {
			return fmt.Errorf("failed to delete interventions of machine %d: %w", id, err)
		}
		return tx.Delete(&model.Machine{}, id).Error
	})
}

// --- Interventions ---

func (s *gormStore) CreateIntervention(ctx context.Context, i *model.Intervention) error {
	return s.db.WithContext(ctx).Omit("Machine", "Technician").Create(i).Error
}

func (s *gormStore) Interventions(ctx context.Context) ([]model.Intervention, error) {
	var interventions []model.Intervention
	if err := s.db.WithContext(ctx).
		Preload("Machine").
		Preload("Machine.Client").
		Preload("Technician").
		Order("id").
		Find(&interventions).Error; err != nil {
		return nil, err
	}
	return interventions, nil
}

func (s *gormStore) InterventionByID(ctx context.Context, id int64) (*model.Intervention, error) {
	var i model.Intervention
	if err := s.db.WithContext(ctx).
		Preload("Machine").
		Preload("Machine.Client").
		Preload("Technician").
		First(&i, id).Error; err != nil {
		return nil, fmt.Errorf("intervention %d: %w", id, err)
	}
	return &i, nil
}

func (s *gormStore) InterventionsByTechnician(ctx context.Context, technicianID int64) ([]model.Intervention, error) {
	var interventions []model.Intervention
	if err := s.db.WithContext(ctx).
		Preload("Machine").
		Preload("Technician").
		Where("technician_id = ?", technicianID).
		Order("id").
		Find(&interventions).Error; err != nil {
		return nil, err
	}
	return interventions, nil
}

func (s *gormStore) SaveIntervention(ctx context.Context, i *model.Intervention) error {
	return s.db.WithContext(ctx).Omit("Machine", "Technician").Save(i).Error
}

func (s *gormStore) DeleteIntervention(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.Intervention{}, id).Error
}

// --- Push subscriptions ---

func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	existing := model.PushSubscription{}
	err := s.db.WithContext(ctx).Where("endpoint = ?", sub.Endpoint).First(&existing).Error
	switch {
	case err == nil:
		existing.P256DH = sub.P256DH
		existing.Auth = sub.Auth
		existing.UserID = sub.UserID
		return s.db.WithContext(ctx).Save(&existing).Error
	case err == gorm.ErrRecordNotFound:
		return s.db.WithContext(ctx).Create(sub).Error
	default:
		return err
	}
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) SubscriptionsByUser(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
