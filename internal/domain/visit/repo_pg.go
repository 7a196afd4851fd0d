package visit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

type apptRepoPG struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &apptRepoPG{pool: pool}
}

const apptCols = `id, patient_id, doctor_name, appointment_date, status, created_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorName, &a.AppointmentDate, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *apptRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_name, appointment_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		a.ID, a.PatientID, a.DoctorName, a.AppointmentDate, a.Status,
	).Scan(&a.CreatedAt)
}

func (r *apptRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *apptRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *apptRepoPG) ListDay(ctx context.Context, from, to time.Time) ([]*QueueRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.appointment_date,
		       p.id, p.full_name, p.phone_number, p.email, p.gender, p.age, p.blood_group,
		       p.medical_history, p.address_street, p.address_city, p.pincode, p.created_at
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		WHERE a.appointment_date >= $1 AND a.appointment_date < $2
		ORDER BY a.appointment_date DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*QueueRow
	for rows.Next() {
		// The join can miss (visit without a patient row), so every patient
		// column scans through a nullable temporary.
		var (
			row       QueueRow
			id        *uuid.UUID
			fullName  *string
			phone     *string
			createdAt *time.Time
			p         patient.Patient
		)
		err := rows.Scan(&row.AppointmentDate,
			&id, &fullName, &phone, &p.Email, &p.Gender, &p.Age, &p.BloodGroup,
			&p.MedicalHistory, &p.AddressStreet, &p.AddressCity, &p.Pincode, &createdAt)
		if err != nil {
			return nil, err
		}
		if id != nil {
			p.ID = *id
			if fullName != nil {
				p.FullName = *fullName
			}
			if phone != nil {
				p.PhoneNumber = *phone
			}
			if createdAt != nil {
				p.CreatedAt = *createdAt
			}
			row.Patient = &p
		}
		items = append(items, &row)
	}
	return items, rows.Err()
}

func (r *apptRepoPG) DeleteEmpty(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var vitals, notes, scripts int
	err = tx.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM vitals WHERE appointment_id = $1),
			(SELECT count(*) FROM clinical_notes WHERE appointment_id = $1),
			(SELECT count(*) FROM prescriptions WHERE appointment_id = $1)`,
		id).Scan(&vitals, &notes, &scripts)
	if err != nil {
		return err
	}
	if vitals+notes+scripts > 0 {
		return ErrVisitNotEmpty
	}

	tag, err := tx.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

type vitalsRepoPG struct {
	pool *pgxpool.Pool
}

func NewVitalsRepoPG(pool *pgxpool.Pool) VitalsRepository {
	return &vitalsRepoPG{pool: pool}
}

func (r *vitalsRepoPG) Create(ctx context.Context, v *Vitals) error {
	v.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO vitals (id, appointment_id, weight_kg, bp_systolic, bp_diastolic,
			pulse_bpm, resp_rate_per_min, temperature_c)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		v.ID, v.AppointmentID, v.WeightKg, v.BPSystolic, v.BPDiastolic,
		v.PulseBPM, v.RespRatePerMin, v.TemperatureC,
	).Scan(&v.CreatedAt)
}

func (r *vitalsRepoPG) ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*Vitals, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, appointment_id, weight_kg, bp_systolic, bp_diastolic,
			pulse_bpm, resp_rate_per_min, temperature_c, created_at
		FROM vitals
		WHERE appointment_id = ANY($1)
		ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]*Vitals)
	for rows.Next() {
		var v Vitals
		err := rows.Scan(&v.ID, &v.AppointmentID, &v.WeightKg, &v.BPSystolic, &v.BPDiastolic,
			&v.PulseBPM, &v.RespRatePerMin, &v.TemperatureC, &v.CreatedAt)
		if err != nil {
			return nil, err
		}
		out[v.AppointmentID] = append(out[v.AppointmentID], &v)
	}
	return out, rows.Err()
}

type noteRepoPG struct {
	pool *pgxpool.Pool
}

func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

func (r *noteRepoPG) Create(ctx context.Context, n *ClinicalNote) error {
	n.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO clinical_notes (id, appointment_id, complaints, observations, diagnoses, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		n.ID, n.AppointmentID, n.Complaints, n.Observations, n.Diagnoses, n.Notes,
	).Scan(&n.CreatedAt)
}

func (r *noteRepoPG) ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*ClinicalNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, appointment_id, complaints, observations, diagnoses, notes, created_at
		FROM clinical_notes
		WHERE appointment_id = ANY($1)
		ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]*ClinicalNote)
	for rows.Next() {
		var n ClinicalNote
		err := rows.Scan(&n.ID, &n.AppointmentID, &n.Complaints, &n.Observations,
			&n.Diagnoses, &n.Notes, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		out[n.AppointmentID] = append(out[n.AppointmentID], &n)
	}
	return out, rows.Err()
}

type scriptRepoPG struct {
	pool *pgxpool.Pool
}

func NewPrescriptionRepoPG(pool *pgxpool.Pool) PrescriptionRepository {
	return &scriptRepoPG{pool: pool}
}

func (r *scriptRepoPG) CreateBatch(ctx context.Context, items []*Prescription) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range items {
		p.ID = uuid.New()
		err := tx.QueryRow(ctx, `
			INSERT INTO prescriptions (id, appointment_id, drug_name, dosage, frequency,
				intake, duration, instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at`,
			p.ID, p.AppointmentID, p.DrugName, p.Dosage, p.Frequency,
			p.Intake, p.Duration, p.Instructions,
		).Scan(&p.CreatedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *scriptRepoPG) ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, appointment_id, drug_name, dosage, frequency, intake, duration,
			instructions, created_at
		FROM prescriptions
		WHERE appointment_id = ANY($1)
		ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]*Prescription)
	for rows.Next() {
		var p Prescription
		err := rows.Scan(&p.ID, &p.AppointmentID, &p.DrugName, &p.Dosage, &p.Frequency,
			&p.Intake, &p.Duration, &p.Instructions, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		out[p.AppointmentID] = append(out[p.AppointmentID], &p)
	}
	return out, rows.Err()
}
