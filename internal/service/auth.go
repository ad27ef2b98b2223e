package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"maintenance-backend/internal/apperr"
	"maintenance-backend/internal/store"
	"maintenance-backend/internal/token"
)

// Auth handles credential verification and token issuance.
type Auth struct {
	store  store.Store
	tokens *token.Manager
}

// NewAuth creates the auth service.
func NewAuth(s store.Store, tokens *token.Manager) *Auth {
	return &Auth{store: s, tokens: tokens}
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login verifies the credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := a.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.AuthenticationRequired("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.AuthenticationRequired("invalid credentials")
	}

	tok, err := a.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, Role: string(user.Role)}, nil
}
