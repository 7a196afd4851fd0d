package visit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// ListByPatient returns a patient's appointments, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	// ListDay returns the visits with appointment_date in [from, to), newest
	// first, each joined with its patient.
	ListDay(ctx context.Context, from, to time.Time) ([]*QueueRow, error)
	// DeleteEmpty deletes the appointment only if it has no vitals, clinical
	// notes, or prescriptions. Returns ErrVisitNotEmpty otherwise, and
	// ErrNotFound when no such appointment exists.
	DeleteEmpty(ctx context.Context, id uuid.UUID) error
}

type VitalsRepository interface {
	Create(ctx context.Context, v *Vitals) error
	ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*Vitals, error)
}

type NoteRepository interface {
	Create(ctx context.Context, n *ClinicalNote) error
	ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*ClinicalNote, error)
}

type PrescriptionRepository interface {
	CreateBatch(ctx context.Context, items []*Prescription) error
	ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*Prescription, error)
}
