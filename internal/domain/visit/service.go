package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatusScheduled is the default status for a freshly booked visit.
const StatusScheduled = "Scheduled"

type Service struct {
	appointments  AppointmentRepository
	vitals        VitalsRepository
	notes         NoteRepository
	prescriptions PrescriptionRepository
	now           func() time.Time
}

func NewService(appointments AppointmentRepository, vitals VitalsRepository,
	notes NoteRepository, prescriptions PrescriptionRepository) *Service {
	return &Service{
		appointments:  appointments,
		vitals:        vitals,
		notes:         notes,
		prescriptions: prescriptions,
		now:           time.Now,
	}
}

// StartVisit books an appointment. The date defaults to now; every new visit
// starts as Scheduled regardless of what the caller sends.
func (s *Service) StartVisit(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrInvalid)
	}
	if a.AppointmentDate.IsZero() {
		a.AppointmentDate = s.now()
	}
	a.Status = StatusScheduled
	return s.appointments.Create(ctx, a)
}

func (s *Service) AttachVitals(ctx context.Context, v *Vitals) error {
	if v.AppointmentID == uuid.Nil {
		return fmt.Errorf("%w: appointment_id is required", ErrInvalid)
	}
	return s.vitals.Create(ctx, v)
}

func (s *Service) AttachNote(ctx context.Context, n *ClinicalNote) error {
	if n.AppointmentID == uuid.Nil {
		return fmt.Errorf("%w: appointment_id is required", ErrInvalid)
	}
	return s.notes.Create(ctx, n)
}

// AttachPrescriptions saves a batch of prescription rows in one transaction.
// An empty batch is rejected.
func (s *Service) AttachPrescriptions(ctx context.Context, items []*Prescription) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one prescription is required", ErrInvalid)
	}
	for i, p := range items {
		if p == nil || p.AppointmentID == uuid.Nil {
			return fmt.Errorf("%w: prescription %d: appointment_id is required", ErrInvalid, i)
		}
	}
	return s.prescriptions.CreateBatch(ctx, items)
}

// DeleteVisit removes an appointment only while it is still empty. Once any
// vitals, clinical note, or prescription is attached the visit is part of the
// medical record and deletion fails with ErrVisitNotEmpty.
func (s *Service) DeleteVisit(ctx context.Context, id uuid.UUID) error {
	return s.appointments.DeleteEmpty(ctx, id)
}

// History returns every visit for the patient, newest first, each with its
// clinical records attached.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]*HistoryEntry, error) {
	appts, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return []*HistoryEntry{}, nil
	}

	ids := make([]uuid.UUID, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
	}

	vitals, err := s.vitals.ListByAppointments(ctx, ids)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByAppointments(ctx, ids)
	if err != nil {
		return nil, err
	}
	scripts, err := s.prescriptions.ListByAppointments(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]*HistoryEntry, len(appts))
	for i, a := range appts {
		e := &HistoryEntry{
			Appointment:   *a,
			Vitals:        vitals[a.ID],
			ClinicalNotes: notes[a.ID],
			Prescriptions: scripts[a.ID],
		}
		if e.Vitals == nil {
			e.Vitals = []*Vitals{}
		}
		if e.ClinicalNotes == nil {
			e.ClinicalNotes = []*ClinicalNote{}
		}
		if e.Prescriptions == nil {
			e.Prescriptions = []*Prescription{}
		}
		entries[i] = e
	}
	return entries, nil
}

// TodayQueue builds the front-desk queue for the current local day: one entry
// per patient, keeping their latest visit of the day. Rows whose patient is
// missing are skipped.
func (s *Service) TodayQueue(ctx context.Context) ([]*QueueEntry, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	rows, err := s.appointments.ListDay(ctx, from, to)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	queue := []*QueueEntry{}
	// Rows come back newest first, so the first row per patient is their
	// latest visit of the day.
	for _, row := range rows {
		if row.Patient == nil || seen[row.Patient.ID] {
			continue
		}
		seen[row.Patient.ID] = true
		queue = append(queue, &QueueEntry{
			Patient:   row.Patient,
			VisitTime: row.AppointmentDate,
		})
	}
	return queue, nil
}
