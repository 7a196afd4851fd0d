package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

var (
	// ErrNotFound is returned when no user row matches.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials is the single failure surfaced to login callers.
	// Unknown user, role mismatch and wrong password all collapse into it so
	// the client cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

// Login checks username, optional role and password. Every failure mode
// returns ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password, role string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if role != "" && u.Role != role {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Create registers a new user with a bcrypt-hashed credential. Used by the
// CLI seed path, not exposed over HTTP.
func (s *Service) Create(ctx context.Context, username, password, role string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if !auth.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q: must be %s or %s", role, auth.RoleDoctor, auth.RoleReceptionist)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{Username: username, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
