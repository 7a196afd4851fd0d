package visit

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

var (
	// ErrNotFound is returned when an appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrVisitNotEmpty is returned when deleting an appointment that has
	// vitals, clinical notes, or prescriptions attached.
	ErrVisitNotEmpty = errors.New("cannot delete: this visit has medical records saved")
	// ErrInvalid marks a rejected payload. Handlers map it to 400; every
	// other error is a store failure and maps to 500.
	ErrInvalid = errors.New("invalid visit payload")
)

// Appointment is a single visit. Clinical records hang off it and are removed
// with it via ON DELETE CASCADE, which is why DeleteEmpty refuses to delete a
// visit with records attached.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorName      *string   `db:"doctor_name" json:"doctor_name,omitempty"`
	AppointmentDate time.Time `db:"appointment_date" json:"appointment_date"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Vitals struct {
	ID             uuid.UUID `db:"id" json:"id"`
	AppointmentID  uuid.UUID `db:"appointment_id" json:"appointment_id"`
	WeightKg       *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	BPSystolic     *int      `db:"bp_systolic" json:"bp_systolic,omitempty"`
	BPDiastolic    *int      `db:"bp_diastolic" json:"bp_diastolic,omitempty"`
	PulseBPM       *int      `db:"pulse_bpm" json:"pulse_bpm,omitempty"`
	RespRatePerMin *int      `db:"resp_rate_per_min" json:"resp_rate_per_min,omitempty"`
	TemperatureC   *float64  `db:"temperature_c" json:"temperature_c,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type ClinicalNote struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Complaints    *string   `db:"complaints" json:"complaints,omitempty"`
	Observations  *string   `db:"observations" json:"observations,omitempty"`
	Diagnoses     *string   `db:"diagnoses" json:"diagnoses,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Prescription struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	DrugName      *string   `db:"drug_name" json:"drug_name,omitempty"`
	Dosage        *string   `db:"dosage" json:"dosage,omitempty"`
	Frequency     *string   `db:"frequency" json:"frequency,omitempty"`
	Intake        *string   `db:"intake" json:"intake,omitempty"`
	Duration      *string   `db:"duration" json:"duration,omitempty"`
	Instructions  *string   `db:"instructions" json:"instructions,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// HistoryEntry is one visit with its clinical records, newest visit first in
// the history response.
type HistoryEntry struct {
	Appointment
	Vitals        []*Vitals       `json:"vitals"`
	ClinicalNotes []*ClinicalNote `json:"clinical_notes"`
	Prescriptions []*Prescription `json:"prescriptions"`
}

// QueueRow is what the appointment repository yields for a day's visits:
// the visit time joined with the patient record, or a nil patient when the
// join found nothing.
type QueueRow struct {
	AppointmentDate time.Time
	Patient         *patient.Patient
}

// QueueEntry flattens the patient record with the time of their latest visit
// of the day.
type QueueEntry struct {
	*patient.Patient
	VisitTime time.Time `json:"visit_time"`
}
