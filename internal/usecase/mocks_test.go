package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/infrastructure/llm"
	"mediconnect/internal/infrastructure/mail"
	"mediconnect/internal/infrastructure/oauth"
	"mediconnect/internal/infrastructure/storage"
	"mediconnect/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// =============================================================================
// Repositories
// =============================================================================

type mockDoctorRepo struct {
	mu      sync.Mutex
	doctors map[string]*entity.Doctor // by store id
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[string]*entity.Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, doctor *entity.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.doctors {
		if d.Email == doctor.Email || d.DoctorID == doctor.DoctorID {
			return repository.ErrDuplicateKey
		}
	}
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = time.Now()
	}
	cp := *doctor
	m.doctors[doctor.ID] = &cp
	return nil
}

func (m *mockDoctorRepo) find(match func(*entity.Doctor) bool) *entity.Doctor {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.doctors {
		if match(d) {
			cp := *d
			return &cp
		}
	}
	return nil
}

func (m *mockDoctorRepo) FindByEmail(_ context.Context, email string) (*entity.Doctor, error) {
	return m.find(func(d *entity.Doctor) bool { return d.Email == email }), nil
}

func (m *mockDoctorRepo) FindByDoctorID(_ context.Context, doctorID string) (*entity.Doctor, error) {
	return m.find(func(d *entity.Doctor) bool { return d.DoctorID == doctorID }), nil
}

func (m *mockDoctorRepo) matching(filter entity.DoctorFilter) []entity.Doctor {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Doctor
	for _, d := range m.doctors {
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.Location != "" && d.Location != filter.Location {
			continue
		}
		if filter.Specialization != "" && d.Specialization != filter.Specialization {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockDoctorRepo) FindAll(_ context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	return m.matching(filter), nil
}

func (m *mockDoctorRepo) Count(_ context.Context, filter entity.DoctorFilter) (int64, error) {
	return int64(len(m.matching(filter))), nil
}

func (m *mockDoctorRepo) Update(_ context.Context, doctor *entity.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.doctors[doctor.ID]; !ok {
		return errors.New("doctor not stored")
	}
	cp := *doctor
	m.doctors[doctor.ID] = &cp
	return nil
}

func (m *mockDoctorRepo) DeleteByDoctorID(_ context.Context, doctorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.doctors {
		if d.DoctorID == doctorID {
			delete(m.doctors, id)
		}
	}
	return nil
}

type mockPatientRepo struct {
	mu       sync.Mutex
	patients map[string]*entity.Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[string]*entity.Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, patient *entity.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if patient.Email != nil {
		for _, p := range m.patients {
			if p.Email != nil && *p.Email == *patient.Email {
				return repository.ErrDuplicateKey
			}
		}
	}
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	cp := *patient
	m.patients[patient.ID] = &cp
	return nil
}

func (m *mockPatientRepo) find(match func(*entity.Patient) bool) *entity.Patient {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.patients {
		if match(p) {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (m *mockPatientRepo) FindByID(_ context.Context, id string) (*entity.Patient, error) {
	return m.find(func(p *entity.Patient) bool { return p.ID == id }), nil
}

func (m *mockPatientRepo) FindByEmail(_ context.Context, email string) (*entity.Patient, error) {
	return m.find(func(p *entity.Patient) bool { return p.Email != nil && *p.Email == email }), nil
}

func (m *mockPatientRepo) FindByPhone(_ context.Context, phone string) (*entity.Patient, error) {
	return m.find(func(p *entity.Patient) bool { return p.Phone == phone }), nil
}

func (m *mockPatientRepo) Update(_ context.Context, patient *entity.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *patient
	m.patients[patient.ID] = &cp
	return nil
}

func (m *mockPatientRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.patients)
}

type mockAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[string]*entity.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[string]*entity.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, appointment *entity.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	cp := *appointment
	m.appointments[appointment.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) FindByID(_ context.Context, id string) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.appointments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *mockAppointmentRepo) FindByIDAndDoctor(ctx context.Context, id, doctorID string) (*entity.Appointment, error) {
	a, _ := m.FindByID(ctx, id)
	if a == nil || a.DoctorID != doctorID {
		return nil, nil
	}
	return a, nil
}

func (m *mockAppointmentRepo) list(match func(*entity.Appointment) bool) []entity.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Appointment
	for _, a := range m.appointments {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockAppointmentRepo) FindByDoctorID(_ context.Context, doctorID string) ([]entity.Appointment, error) {
	return m.list(func(a *entity.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (m *mockAppointmentRepo) FindByPatientID(_ context.Context, patientID string) ([]entity.Appointment, error) {
	return m.list(func(a *entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, appointment *entity.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *appointment
	m.appointments[appointment.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appointments)
}

type mockCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*entity.OneTimeCode
}

func newMockCodeRepo() *mockCodeRepo {
	return &mockCodeRepo{codes: make(map[string]*entity.OneTimeCode)}
}

func (m *mockCodeRepo) Create(_ context.Context, code *entity.OneTimeCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	cp := *code
	m.codes[code.ID] = &cp
	return nil
}

func (m *mockCodeRepo) FindUnverified(_ context.Context, email, code string) (*entity.OneTimeCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.Email == email && c.Code == code && !c.Verified {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockCodeRepo) MarkVerified(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[id]
	if !ok || c.Verified {
		return false, nil
	}
	c.Verified = true
	return true, nil
}

func (m *mockCodeRepo) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, id)
	return nil
}

func (m *mockCodeRepo) DeleteByEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.codes {
		if c.Email == email {
			delete(m.codes, id)
		}
	}
	return nil
}

func (m *mockCodeRepo) forEmail(email string) []entity.OneTimeCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.OneTimeCode
	for _, c := range m.codes {
		if c.Email == email {
			out = append(out, *c)
		}
	}
	return out
}

// =============================================================================
// Collaborators
// =============================================================================

type mockMailer struct {
	mu            sync.Mutex
	codes         map[string]string
	confirmations []string
	failCodes     bool
	failConfirm   bool
}

func newMockMailer() *mockMailer {
	return &mockMailer{codes: make(map[string]string)}
}

func (m *mockMailer) SendVerificationCode(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCodes {
		return errors.New("smtp unavailable")
	}
	m.codes[to] = code
	return nil
}

func (m *mockMailer) SendAppointmentConfirmation(to string, _ mail.ConfirmationDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failConfirm {
		return errors.New("smtp unavailable")
	}
	m.confirmations = append(m.confirmations, to)
	return nil
}

func (m *mockMailer) lastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type mockStorage struct {
	mu      sync.Mutex
	uploads []string
	fail    bool
}

func (m *mockStorage) Upload(_ context.Context, path, folder, publicID string) (*storage.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("storage unavailable")
	}
	m.uploads = append(m.uploads, folder+"/"+publicID)
	return &storage.UploadResult{
		SecureURL: "https://cdn.example.com/" + folder + "/" + publicID,
		PublicID:  folder + "/" + publicID,
	}, nil
}

func (m *mockStorage) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, key := range m.uploads {
		if key == publicID {
			m.uploads = append(m.uploads[:i], m.uploads[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

type mockIdentityProvider struct {
	identity *oauth.Identity
	err      error
}

func (m *mockIdentityProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (m *mockIdentityProvider) Exchange(_ context.Context, _ string) (*oauth.Identity, error) {
	return m.identity, m.err
}

type mockStateStore struct {
	mu     sync.Mutex
	states map[string]bool
}

func newMockStateStore() *mockStateStore {
	return &mockStateStore{states: make(map[string]bool)}
}

func (m *mockStateStore) Save(_ context.Context, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state] = true
	return nil
}

func (m *mockStateStore) Consume(_ context.Context, state string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.states[state]
	delete(m.states, state)
	return ok, nil
}

// mockBookingGuard mirrors the Redis guard in memory
type mockBookingGuard struct {
	mu   sync.Mutex
	keys map[string]string
}

func newMockBookingGuard() *mockBookingGuard {
	return &mockBookingGuard{keys: make(map[string]string)}
}

func (m *mockBookingGuard) Acquire(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.keys[key]
	if !ok {
		m.keys[key] = "pending"
		return "", nil
	}
	if v == "pending" {
		return "", service.ErrBookingInFlight
	}
	return v, nil
}

func (m *mockBookingGuard) Complete(_ context.Context, key, appointmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = appointmentID
	return nil
}

func (m *mockBookingGuard) Replace(_ context.Context, key, staleID, appointmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] == staleID {
		m.keys[key] = appointmentID
	}
	return nil
}

func (m *mockBookingGuard) Release(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
}

type mockAuditService struct {
	mu      sync.Mutex
	actions []string
}

func (m *mockAuditService) Record(_ context.Context, _, action, _, _ string, _ entity.JSON) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
}

func (m *mockAuditService) Recent(_ context.Context, _ int) ([]entity.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs := make([]entity.AuditLog, len(m.actions))
	for i, a := range m.actions {
		logs[i] = entity.AuditLog{Action: a}
	}
	return logs, nil
}

type mockChatClient struct {
	reply    string
	err      error
	received []llm.Message
}

func (m *mockChatClient) Complete(_ context.Context, messages []llm.Message) (string, error) {
	m.received = messages
	return m.reply, m.err
}
