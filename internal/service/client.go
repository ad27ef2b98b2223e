package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"maintenance-backend/internal/apperr"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

// Clients manages client companies.
type Clients struct {
	store store.Store
}

// NewClients creates the client service.
func NewClients(s store.Store) *Clients {
	return &Clients{store: s}
}

// ClientInput is the create/update payload for a client.
type ClientInput struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// Create persists a new client.
func (s *Clients) Create(ctx context.Context, in ClientInput) (*ClientView, error) {
	if in.CompanyName == "" {
		return nil, apperr.Validation("companyName is required")
	}
	client := model.Client{
		CompanyName: in.CompanyName,
		Address:     in.Address,
		Phone:       in.Phone,
	}
	if err := s.store.CreateClient(ctx, &client); err != nil {
		return nil, err
	}
	v := clientView(&client)
	return &v, nil
}

// All returns every client in insertion order.
func (s *Clients) All(ctx context.Context) ([]ClientView, error) {
	clients, err := s.store.Clients(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ClientView, 0, len(clients))
	for i := range clients {
		views = append(views, clientView(&clients[i]))
	}
	return views, nil
}

// ByID returns one client.
func (s *Clients) ByID(ctx context.Context, id int64) (*ClientView, error) {
	client, err := s.store.ClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client %d not found", id)
		}
		return nil, err
	}
	v := clientView(client)
	return &v, nil
}

// Update replaces the mutable fields of a client.
func (s *Clients) Update(ctx context.Context, id int64, in ClientInput) (*ClientView, error) {
	if in.CompanyName == "" {
		return nil, apperr.Validation("companyName is required")
	}
	client, err := s.store.ClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client %d not found", id)
		}
		return nil, err
	}

	client.CompanyName = in.CompanyName
	client.Address = in.Address
	client.Phone = in.Phone
	if err := s.store.SaveClient(ctx, client); err != nil {
		return nil, err
	}
	v := clientView(client)
	return &v, nil
}

// Delete removes a client and cascades to its machines and their
// interventions.
func (s *Clients) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.ClientByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("client %d not found", id)
		}
		return err
	}
	return s.store.DeleteClient(ctx, id)
}
