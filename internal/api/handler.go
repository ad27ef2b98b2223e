package api

import (
	"maintenance-backend/internal/service"
	"maintenance-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store         store.Store
	auth          *service.Auth
	users         *service.Users
	clients       *service.Clients
	machines      *service.Machines
	interventions *service.Interventions
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, auth *service.Auth, users *service.Users, clients *service.Clients, machines *service.Machines, interventions *service.Interventions) *Handler {
	return &Handler{
		store:         s,
		auth:          auth,
		users:         users,
		clients:       clients,
		machines:      machines,
		interventions: interventions,
	}
}
