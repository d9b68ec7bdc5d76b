package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/service"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	next     int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*entity.Session)}
}

func (s *fakeSessionStore) Create(_ context.Context, session *entity.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	token := "token-" + strconv.Itoa(s.next)
	s.sessions[token] = session
	return token, nil
}

func (s *fakeSessionStore) Get(_ context.Context, token string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, service.ErrSessionNotFound
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *fakeSessionStore) TTL() time.Duration { return 24 * time.Hour }

type fakeAppointmentUsecase struct {
	usecase.AppointmentUsecase
	bookErr        error
	idempotencyKey string
}

func (f *fakeAppointmentUsecase) Book(_ context.Context, req *dto.BookAppointmentRequest, key string) (*dto.AppointmentResponse, error) {
	f.idempotencyKey = key
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &dto.AppointmentResponse{ID: "appt-1", DoctorID: req.DoctorID, Status: "pending"}, nil
}

type fakeVerificationUsecase struct {
	usecase.VerificationUsecase
	identity *dto.PatientIdentityResponse
	err      error
}

func (f *fakeVerificationUsecase) VerifyCode(context.Context, *dto.VerifyOTPRequest) (*dto.PatientIdentityResponse, error) {
	return f.identity, f.err
}

func (f *fakeVerificationUsecase) CompleteFederatedSignIn(context.Context, string, string) (*dto.PatientIdentityResponse, error) {
	return f.identity, f.err
}

type fakeSymptomUsecase struct {
	err error
}

func (f *fakeSymptomUsecase) Search(context.Context, *dto.SymptomSearchRequest) (*dto.SymptomSearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SymptomSearchResponse{Response: "ok", QueryType: "symptom_analysis", Level: "initial"}, nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

const validBooking = `{"doctor_id":"DOC-ABCDEFGH","name":"Ravi Kumar","phone":"555-010-1234","description":"fever"}`

func TestBookAppointmentForwardsIdempotencyKey(t *testing.T) {
	appointments := &fakeAppointmentUsecase{}
	h := NewPatientHandler(nil, appointments, nil, validator.NewValidator(), "/")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/appointments", strings.NewReader(validBooking))
	req.Header.Set("Idempotency-Key", "retry-42")
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if appointments.idempotencyKey != "retry-42" {
		t.Errorf("idempotency key = %q", appointments.idempotencyKey)
	}
	if body := decode(t, rec); !body.Success {
		t.Errorf("success = false")
	}
}

func TestBookAppointmentErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed body", `{`, nil, http.StatusBadRequest},
		{"missing phone", `{"doctor_id":"DOC-ABCDEFGH","name":"Ravi"}`, nil, http.StatusBadRequest},
		{"unknown doctor", validBooking, usecase.ErrDoctorNotFound, http.StatusNotFound},
		{"in flight", validBooking, usecase.ErrBookingInProgress, http.StatusConflict},
		{"store failure", validBooking, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewPatientHandler(nil, &fakeAppointmentUsecase{bookErr: c.err}, nil, validator.NewValidator(), "/")
			rec := httptest.NewRecorder()
			h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(c.body)))
			if rec.Code != c.want {
				t.Errorf("status = %d, want %d", rec.Code, c.want)
			}
		})
	}
}

func TestVerifyOTPStartsPatientSession(t *testing.T) {
	store := newFakeSessionStore()
	sessions := NewSessionManager(store, true, newTestLogger())
	verification := &fakeVerificationUsecase{
		identity: &dto.PatientIdentityResponse{ID: "patient-1", Name: "Asha", Email: "asha@x.com"},
	}
	h := NewPatientHandler(verification, nil, sessions, validator.NewValidator(), "/")

	rec := httptest.NewRecorder()
	h.VerifyOTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"asha@x.com","otp":"123456"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || !cookie.HttpOnly || !cookie.Secure {
		t.Fatalf("session cookie = %+v", cookie)
	}
	session, err := store.Get(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if session.Role != entity.RolePatient || session.PatientID != "patient-1" {
		t.Errorf("session = %+v", session)
	}
}

func TestVerifyOTPErrors(t *testing.T) {
	cases := []struct {
		body string
		err  error
		want int
	}{
		{`{"email":"asha@x.com","otp":"12ab56"}`, nil, http.StatusBadRequest},
		{`{"email":"asha@x.com","otp":"123456"}`, usecase.ErrInvalidOrExpiredCode, http.StatusBadRequest},
		{`{"email":"asha@x.com","otp":"123456"}`, usecase.ErrCodeExpired, http.StatusBadRequest},
	}
	for _, c := range cases {
		store := newFakeSessionStore()
		h := NewPatientHandler(&fakeVerificationUsecase{err: c.err}, nil, NewSessionManager(store, false, newTestLogger()), validator.NewValidator(), "/")
		rec := httptest.NewRecorder()
		h.VerifyOTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(c.body)))
		if rec.Code != c.want {
			t.Errorf("%s (%v): status = %d, want %d", c.body, c.err, rec.Code, c.want)
		}
		if sessionCookie(rec) != nil {
			t.Errorf("%s: session started on failure", c.body)
		}
	}
}

func TestGoogleCallbackRedirectsWithSession(t *testing.T) {
	store := newFakeSessionStore()
	verification := &fakeVerificationUsecase{
		identity: &dto.PatientIdentityResponse{ID: "patient-2", Name: "Lee"},
	}
	h := NewPatientHandler(verification, nil, NewSessionManager(store, false, newTestLogger()), validator.NewValidator(), "https://app.example.com/home")

	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=c1", nil))

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://app.example.com/home" {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
	if sessionCookie(rec) == nil {
		t.Error("no session cookie after federated sign-in")
	}
}

func TestGoogleCallbackRejectsBadState(t *testing.T) {
	h := NewPatientHandler(&fakeVerificationUsecase{err: usecase.ErrInvalidOAuthState}, nil,
		NewSessionManager(newFakeSessionStore(), false, newTestLogger()), validator.NewValidator(), "/")

	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=c1", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGoogleCallbackRejectsUnverifiedEmail(t *testing.T) {
	h := NewPatientHandler(&fakeVerificationUsecase{err: usecase.ErrUnverifiedIdentity}, nil,
		NewSessionManager(newFakeSessionStore(), false, newTestLogger()), validator.NewValidator(), "/")

	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=c1", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Error("session started for an unverified google email")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	store := newFakeSessionStore()
	token, _ := store.Create(context.Background(), &entity.Session{Role: entity.RolePatient, PatientID: "p"})
	h := NewPatientHandler(nil, nil, NewSessionManager(store, false, newTestLogger()), validator.NewValidator(), "/")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.TokenKey, token))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if _, err := store.Get(context.Background(), token); err != service.ErrSessionNotFound {
		t.Errorf("session still present: %v", err)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Errorf("cookie not expired: %+v", c)
	}
}

func TestSymptomSearchErrorMapping(t *testing.T) {
	cases := []struct {
		body string
		err  error
		want int
	}{
		{`{"query":"I have a headache"}`, nil, http.StatusOK},
		{`{"query":""}`, nil, http.StatusBadRequest},
		{`{"query":"   "}`, usecase.ErrEmptyQuery, http.StatusBadRequest},
		{`{"query":"I have a headache"}`, usecase.ErrUpstreamUnavailable, http.StatusBadGateway},
	}
	for _, c := range cases {
		h := NewSymptomHandler(&fakeSymptomUsecase{err: c.err}, validator.NewValidator())
		rec := httptest.NewRecorder()
		h.Search(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(c.body)))
		if rec.Code != c.want {
			t.Errorf("%s (%v): status = %d, want %d", c.body, c.err, rec.Code, c.want)
		}
	}
}
