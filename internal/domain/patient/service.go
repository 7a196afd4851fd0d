package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no patient row matches.
	ErrNotFound = errors.New("patient not found")
	// ErrInvalid marks a rejected payload. Handlers map it to 400; every
	// other error is a store failure and maps to 500.
	ErrInvalid = errors.New("invalid patient")
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// Register inserts a new patient. full_name and phone_number are required;
// nothing is stored when either is missing.
func (s *Service) Register(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("%w: full_name is required", ErrInvalid)
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return fmt.Errorf("%w: phone_number is required", ErrInvalid)
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// List returns patients newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, error) {
	return s.patients.List(ctx, limit, offset)
}

// Search returns patients whose name contains query, case-insensitive.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.patients.List(ctx, limit, offset)
	}
	return s.patients.SearchByName(ctx, query, limit, offset)
}
