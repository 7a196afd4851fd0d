package visit

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

type mockVitalsRepo struct {
	items map[uuid.UUID][]*Vitals
}

func (m *mockVitalsRepo) Create(ctx context.Context, v *Vitals) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	m.items[v.AppointmentID] = append(m.items[v.AppointmentID], v)
	return nil
}

func (m *mockVitalsRepo) ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*Vitals, error) {
	out := make(map[uuid.UUID][]*Vitals)
	for _, id := range ids {
		if vs := m.items[id]; len(vs) > 0 {
			out[id] = vs
		}
	}
	return out, nil
}

type mockNoteRepo struct {
	items map[uuid.UUID][]*ClinicalNote
}

func (m *mockNoteRepo) Create(ctx context.Context, n *ClinicalNote) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	m.items[n.AppointmentID] = append(m.items[n.AppointmentID], n)
	return nil
}

func (m *mockNoteRepo) ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*ClinicalNote, error) {
	out := make(map[uuid.UUID][]*ClinicalNote)
	for _, id := range ids {
		if ns := m.items[id]; len(ns) > 0 {
			out[id] = ns
		}
	}
	return out, nil
}

type mockScriptRepo struct {
	items map[uuid.UUID][]*Prescription
}

func (m *mockScriptRepo) CreateBatch(ctx context.Context, batch []*Prescription) error {
	for _, p := range batch {
		p.ID = uuid.New()
		p.CreatedAt = time.Now()
		m.items[p.AppointmentID] = append(m.items[p.AppointmentID], p)
	}
	return nil
}

func (m *mockScriptRepo) ListByAppointments(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*Prescription, error) {
	out := make(map[uuid.UUID][]*Prescription)
	for _, id := range ids {
		if ps := m.items[id]; len(ps) > 0 {
			out[id] = ps
		}
	}
	return out, nil
}

// mockApptRepo sees the child mocks so DeleteEmpty can apply the same guard
// as the SQL implementation.
type mockApptRepo struct {
	appts    map[uuid.UUID]*Appointment
	patients map[uuid.UUID]*patient.Patient
	vitals   *mockVitalsRepo
	notes    *mockNoteRepo
	scripts  *mockScriptRepo
}

func (m *mockApptRepo) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockApptRepo) sortedDesc() []*Appointment {
	items := make([]*Appointment, 0, len(m.appts))
	for _, a := range m.appts {
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AppointmentDate.After(items[j].AppointmentDate)
	})
	return items
}

func (m *mockApptRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.sortedDesc() {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApptRepo) ListDay(ctx context.Context, from, to time.Time) ([]*QueueRow, error) {
	var out []*QueueRow
	for _, a := range m.sortedDesc() {
		if a.AppointmentDate.Before(from) || !a.AppointmentDate.Before(to) {
			continue
		}
		out = append(out, &QueueRow{
			AppointmentDate: a.AppointmentDate,
			Patient:         m.patients[a.PatientID],
		})
	}
	return out, nil
}

func (m *mockApptRepo) DeleteEmpty(ctx context.Context, id uuid.UUID) error {
	if len(m.vitals.items[id])+len(m.notes.items[id])+len(m.scripts.items[id]) > 0 {
		return ErrVisitNotEmpty
	}
	if _, ok := m.appts[id]; !ok {
		return ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

type fixture struct {
	svc     *Service
	appts   *mockApptRepo
	vitals  *mockVitalsRepo
	notes   *mockNoteRepo
	scripts *mockScriptRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	vitals := &mockVitalsRepo{items: make(map[uuid.UUID][]*Vitals)}
	notes := &mockNoteRepo{items: make(map[uuid.UUID][]*ClinicalNote)}
	scripts := &mockScriptRepo{items: make(map[uuid.UUID][]*Prescription)}
	appts := &mockApptRepo{
		appts:    make(map[uuid.UUID]*Appointment),
		patients: make(map[uuid.UUID]*patient.Patient),
		vitals:   vitals,
		notes:    notes,
		scripts:  scripts,
	}
	return &fixture{
		svc:     NewService(appts, vitals, notes, scripts),
		appts:   appts,
		vitals:  vitals,
		notes:   notes,
		scripts: scripts,
	}
}

func (f *fixture) addPatient(t *testing.T, name string) *patient.Patient {
	t.Helper()
	p := &patient.Patient{ID: uuid.New(), FullName: name, PhoneNumber: "9000000000"}
	f.appts.patients[p.ID] = p
	return p
}

func (f *fixture) addVisit(t *testing.T, patientID uuid.UUID, at time.Time) *Appointment {
	t.Helper()
	a := &Appointment{PatientID: patientID, AppointmentDate: at}
	if err := f.svc.StartVisit(context.Background(), a); err != nil {
		t.Fatalf("start visit: %v", err)
	}
	return a
}

func strptr(s string) *string { return &s }

func TestStartVisitDefaults(t *testing.T) {
	f := newFixture(t)
	p := f.addPatient(t, "Asha Rao")

	a := &Appointment{PatientID: p.ID}
	if err := f.svc.StartVisit(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Fatalf("expected default status %q, got %q", StatusScheduled, a.Status)
	}
	if a.AppointmentDate.IsZero() {
		t.Fatal("expected appointment date to default to now")
	}
}

func TestStartVisitRequiresPatient(t *testing.T) {
	f := newFixture(t)

	err := f.svc.StartVisit(context.Background(), &Appointment{})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for missing patient_id, got %v", err)
	}
}

func TestStartVisitForcesScheduledStatus(t *testing.T) {
	f := newFixture(t)
	p := f.addPatient(t, "Asha Rao")

	a := &Appointment{PatientID: p.ID, Status: "Completed"}
	if err := f.svc.StartVisit(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Fatalf("client-supplied status must be overridden, got %q", a.Status)
	}
}

func TestAttachVitalsRequiresAppointment(t *testing.T) {
	f := newFixture(t)

	if err := f.svc.AttachVitals(context.Background(), &Vitals{}); err == nil {
		t.Fatal("expected error for missing appointment_id")
	}
}

func TestAttachPrescriptionsRejectsEmptyBatch(t *testing.T) {
	f := newFixture(t)

	if err := f.svc.AttachPrescriptions(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
	if err := f.svc.AttachPrescriptions(context.Background(), []*Prescription{}); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestDeleteEmptyVisit(t *testing.T) {
	f := newFixture(t)
	p := f.addPatient(t, "Asha Rao")
	a := f.addVisit(t, p.ID, time.Now())

	if err := f.svc.DeleteVisit(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.appts.appts[a.ID]; ok {
		t.Fatal("appointment should be gone")
	}
}

func TestDeleteVisitWithRecordsFails(t *testing.T) {
	f := newFixture(t)
	p := f.addPatient(t, "Asha Rao")

	cases := []struct {
		name   string
		attach func(t *testing.T, apptID uuid.UUID)
	}{
		{"vitals", func(t *testing.T, id uuid.UUID) {
			w := 72.5
			if err := f.svc.AttachVitals(context.Background(), &Vitals{AppointmentID: id, WeightKg: &w}); err != nil {
				t.Fatalf("attach vitals: %v", err)
			}
		}},
		{"clinical note", func(t *testing.T, id uuid.UUID) {
			if err := f.svc.AttachNote(context.Background(), &ClinicalNote{AppointmentID: id, Complaints: strptr("fever")}); err != nil {
				t.Fatalf("attach note: %v", err)
			}
		}},
		{"prescription", func(t *testing.T, id uuid.UUID) {
			batch := []*Prescription{{AppointmentID: id, DrugName: strptr("Paracetamol")}}
			if err := f.svc.AttachPrescriptions(context.Background(), batch); err != nil {
				t.Fatalf("attach prescriptions: %v", err)
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := f.addVisit(t, p.ID, time.Now())
			tc.attach(t, a.ID)

			err := f.svc.DeleteVisit(context.Background(), a.ID)
			if err != ErrVisitNotEmpty {
				t.Fatalf("expected ErrVisitNotEmpty, got %v", err)
			}
			if _, ok := f.appts.appts[a.ID]; !ok {
				t.Fatal("appointment must survive a refused delete")
			}
		})
	}
}

func TestDeleteVisitNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteVisit(context.Background(), uuid.New())
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	p := f.addPatient(t, "Asha Rao")

	old := f.addVisit(t, p.ID, time.Now().AddDate(0, -1, 0))
	recent := f.addVisit(t, p.ID, time.Now())

	w := 70.0
	if err := f.svc.AttachVitals(context.Background(), &Vitals{AppointmentID: recent.ID, WeightKg: &w}); err != nil {
		t.Fatalf("attach vitals: %v", err)
	}
	if err := f.svc.AttachNote(context.Background(), &ClinicalNote{AppointmentID: old.ID, Diagnoses: strptr("migraine")}); err != nil {
		t.Fatalf("attach note: %v", err)
	}

	entries, err := f.svc.History(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != recent.ID {
		t.Fatal("expected most recent visit first")
	}
	if len(entries[0].Vitals) != 1 || len(entries[0].ClinicalNotes) != 0 {
		t.Fatalf("records attached to wrong visit: %+v", entries[0])
	}
	if len(entries[1].ClinicalNotes) != 1 {
		t.Fatal("expected note on the older visit")
	}
	if entries[1].Vitals == nil || entries[1].Prescriptions == nil {
		t.Fatal("empty record slices must not be nil")
	}
}

func TestHistoryEmptyPatient(t *testing.T) {
	f := newFixture(t)
	p := f.addPatient(t, "Asha Rao")

	entries, err := f.svc.History(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil history, got %v", entries)
	}
}

func TestTodayQueueDedupesPatients(t *testing.T) {
	f := newFixture(t)
	f.svc.now = func() time.Time {
		return time.Date(2024, 3, 14, 16, 0, 0, 0, time.Local)
	}
	day := func(h, m int) time.Time {
		return time.Date(2024, 3, 14, h, m, 0, 0, time.Local)
	}

	p1 := f.addPatient(t, "Asha Rao")
	p2 := f.addPatient(t, "Vikram Shah")

	f.addVisit(t, p1.ID, day(9, 0))
	f.addVisit(t, p1.ID, day(14, 0))
	f.addVisit(t, p2.ID, day(10, 0))

	queue, err := f.svc.TodayQueue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("expected 2 queue entries, got %d", len(queue))
	}
	if queue[0].ID != p1.ID || !queue[0].VisitTime.Equal(day(14, 0)) {
		t.Fatalf("expected Asha at 14:00 first, got %s at %s", queue[0].FullName, queue[0].VisitTime)
	}
	if queue[1].ID != p2.ID || !queue[1].VisitTime.Equal(day(10, 0)) {
		t.Fatalf("expected Vikram at 10:00 second, got %s at %s", queue[1].FullName, queue[1].VisitTime)
	}
}

func TestTodayQueueExcludesOtherDays(t *testing.T) {
	f := newFixture(t)
	f.svc.now = func() time.Time {
		return time.Date(2024, 3, 14, 16, 0, 0, 0, time.Local)
	}

	p := f.addPatient(t, "Asha Rao")
	f.addVisit(t, p.ID, time.Date(2024, 3, 13, 23, 59, 0, 0, time.Local))
	f.addVisit(t, p.ID, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local))

	queue, err := f.svc.TodayQueue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue) != 0 {
		t.Fatalf("expected empty queue, got %d entries", len(queue))
	}
	if queue == nil {
		t.Fatal("empty queue must not be nil")
	}
}

func TestTodayQueueSkipsMissingPatients(t *testing.T) {
	f := newFixture(t)
	f.svc.now = func() time.Time {
		return time.Date(2024, 3, 14, 16, 0, 0, 0, time.Local)
	}

	p := f.addPatient(t, "Asha Rao")
	f.addVisit(t, p.ID, time.Date(2024, 3, 14, 9, 0, 0, 0, time.Local))
	// Visit pointing at a patient record the join cannot find.
	f.addVisit(t, uuid.New(), time.Date(2024, 3, 14, 11, 0, 0, 0, time.Local))

	queue, err := f.svc.TodayQueue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != p.ID {
		t.Fatalf("expected only Asha in the queue, got %d entries", len(queue))
	}
}
