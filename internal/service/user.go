package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"maintenance-backend/internal/apperr"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
)

// Users manages administrator and technician accounts.
type Users struct {
	store store.Store
}

// NewUsers creates the user service.
func NewUsers(s store.Store) *Users {
	return &Users{store: s}
}

// UserInput is the create payload for a user account.
type UserInput struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// Create hashes the password and persists the account. Role is fixed at
// creation; there is no role-change operation.
func (s *Users) Create(ctx context.Context, in UserInput) (*UserView, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("role must be ADMIN or TECHNICIAN")
	}

	if _, err := s.store.UserByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("email %s is already in use", in.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Role:     in.Role,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	v := userView(&user)
	return &v, nil
}

// All returns every account in insertion order.
func (s *Users) All(ctx context.Context) ([]UserView, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return views, nil
}

// ByID returns one account.
func (s *Users) ByID(ctx context.Context, id int64) (*UserView, error) {
	user, err := s.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, err
	}
	v := userView(user)
	return &v, nil
}

// Update replaces name and email and optionally rotates the password.
// Role is immutable after creation; a differing role in the payload is
// rejected rather than silently ignored.
func (s *Users) Update(ctx context.Context, id int64, in UserInput) (*UserView, error) {
	if in.Name == "" || in.Email == "" {
		return nil, apperr.Validation("name and email are required")
	}
	user, err := s.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, err
	}
	if in.Role != "" && in.Role != user.Role {
		return nil, apperr.Validation("role is immutable")
	}
	if in.Email != user.Email {
		if _, err := s.store.UserByEmail(ctx, in.Email); err == nil {
			return nil, apperr.Conflict("email %s is already in use", in.Email)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user.Name = in.Name
	user.Email = in.Email
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	v := userView(user)
	return &v, nil
}

// Delete removes an account. Interventions assigned to the user are
// unassigned rather than deleted.
func (s *Users) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.UserByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user %d not found", id)
		}
		return err
	}
	return s.store.DeleteUser(ctx, id)
}
