package usecase

import (
	"context"
	"testing"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/service"
)

type appointmentFixture struct {
	usecase      *appointmentUsecase
	doctors      *mockDoctorRepo
	patients     *mockPatientRepo
	appointments *mockAppointmentRepo
	mailer       *mockMailer
	guard        *mockBookingGuard
	clock        *fakeClock
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	f := &appointmentFixture{
		doctors:      newMockDoctorRepo(),
		patients:     newMockPatientRepo(),
		appointments: newMockAppointmentRepo(),
		mailer:       newMockMailer(),
		guard:        newMockBookingGuard(),
		clock:        newFakeClock(),
	}
	uc := NewAppointmentUsecase(newTestLogger(), f.appointments, f.patients, f.doctors, f.mailer, f.guard, &mockAuditService{})
	f.usecase = uc.(*appointmentUsecase)
	f.usecase.now = f.clock.Now

	ctx := context.Background()
	f.doctors.Create(ctx, &entity.Doctor{DoctorID: "DOC-OWNER001", Name: "Dr. Owner", Email: "owner@x.com",
		Status: entity.DoctorStatusApproved, Specialization: "cardiology", Location: "pune"})
	f.doctors.Create(ctx, &entity.Doctor{DoctorID: "DOC-OTHER002", Name: "Dr. Other", Email: "other@x.com",
		Status: entity.DoctorStatusApproved, Specialization: "dermatology", Location: "mumbai"})
	f.doctors.Create(ctx, &entity.Doctor{DoctorID: "DOC-PENDING3", Name: "Dr. Pending", Email: "pending@x.com",
		Status: entity.DoctorStatusPending, Specialization: "cardiology", Location: "pune"})
	return f
}

func bookRequest(phone, description string) *dto.BookAppointmentRequest {
	age := 34
	return &dto.BookAppointmentRequest{
		DoctorID:    "DOC-OWNER001",
		Name:        "Ravi Kumar",
		Email:       "ravi@x.com",
		Phone:       phone,
		Age:         &age,
		Gender:      "male",
		Address:     "12 MG Road",
		Description: description,
	}
}

func TestBookNewPhoneCreatesPatientAndAppointment(t *testing.T) {
	f := newAppointmentFixture(t)

	resp, err := f.usecase.Book(context.Background(), bookRequest("555-0100", "chest pain"), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if f.patients.count() != 1 || f.appointments.count() != 1 {
		t.Fatalf("patients=%d appointments=%d, want 1/1", f.patients.count(), f.appointments.count())
	}
	if resp.Status != string(entity.AppointmentStatusPending) {
		t.Errorf("status = %s", resp.Status)
	}
	if resp.UrgencyLevel != string(entity.UrgencyLow) {
		t.Errorf("urgency = %s, want low", resp.UrgencyLevel)
	}

	patient, _ := f.patients.FindByPhone(context.Background(), "5550100")
	if patient == nil {
		t.Fatal("patient not stored under the normalised phone")
	}
	if patient.ID != resp.PatientID || patient.EmailValue() != "ravi@x.com" {
		t.Errorf("unexpected patient %+v", patient)
	}
}

func TestBookSamePhoneReusesPatient(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	first, err := f.usecase.Book(ctx, bookRequest("555-0101", "headache"), "")
	if err != nil {
		t.Fatalf("first Book: %v", err)
	}

	second := bookRequest("555-0101", "follow-up visit")
	second.Name = "Ravi K."
	second.UrgencyLevel = "high"
	resp, err := f.usecase.Book(ctx, second, "")
	if err != nil {
		t.Fatalf("second Book: %v", err)
	}

	if resp.PatientID != first.PatientID {
		t.Errorf("patient id changed: %s -> %s", first.PatientID, resp.PatientID)
	}
	if resp.ID == first.ID {
		t.Error("second booking returned the first appointment")
	}
	if f.patients.count() != 1 || f.appointments.count() != 2 {
		t.Fatalf("patients=%d appointments=%d, want 1/2", f.patients.count(), f.appointments.count())
	}

	patient, _ := f.patients.FindByID(ctx, first.PatientID)
	if patient.Name != "Ravi K." {
		t.Errorf("patient name not refreshed: %s", patient.Name)
	}

	original, _ := f.appointments.FindByID(ctx, first.ID)
	if original.PatientName != "Ravi Kumar" {
		t.Errorf("snapshot rewritten: %s", original.PatientName)
	}
	if resp.UrgencyLevel != "high" {
		t.Errorf("urgency = %s", resp.UrgencyLevel)
	}
}

func TestBookDuplicateSubmissionCollapses(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	first, err := f.usecase.Book(ctx, bookRequest("555-0102", "fever"), "")
	if err != nil {
		t.Fatalf("first Book: %v", err)
	}
	again, err := f.usecase.Book(ctx, bookRequest("555-0102", "fever"), "")
	if err != nil {
		t.Fatalf("repeat Book: %v", err)
	}

	if again.ID != first.ID || f.appointments.count() != 1 {
		t.Errorf("repeat created a new appointment (count=%d)", f.appointments.count())
	}
}

func TestBookPhoneFormatsShareOnePatient(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	first, err := f.usecase.Book(ctx, bookRequest("555-0100", "sore throat"), "")
	if err != nil {
		t.Fatalf("first Book: %v", err)
	}
	second, err := f.usecase.Book(ctx, bookRequest(" 555 0100 ", "earache"), "")
	if err != nil {
		t.Fatalf("second Book: %v", err)
	}

	if second.PatientID != first.PatientID || f.patients.count() != 1 {
		t.Errorf("separator variants created %d patients", f.patients.count())
	}
	if second.PatientPhone != "5550100" {
		t.Errorf("snapshot phone = %q, want 5550100", second.PatientPhone)
	}
}

func TestBookRepointsKeyOfMissingAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	first, err := f.usecase.Book(ctx, bookRequest("555-0107", "dizziness"), "retry-key")
	if err != nil {
		t.Fatalf("first Book: %v", err)
	}
	f.appointments.mu.Lock()
	delete(f.appointments.appointments, first.ID)
	f.appointments.mu.Unlock()

	second, err := f.usecase.Book(ctx, bookRequest("555-0107", "dizziness"), "retry-key")
	if err != nil {
		t.Fatalf("second Book: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("returned an appointment that no longer exists")
	}

	third, err := f.usecase.Book(ctx, bookRequest("555-0107", "dizziness"), "retry-key")
	if err != nil {
		t.Fatalf("third Book: %v", err)
	}
	if third.ID != second.ID || f.appointments.count() != 1 {
		t.Errorf("retry created another appointment (count=%d)", f.appointments.count())
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"555-0100", "5550100"},
		{" +91 98765 43210 ", "+919876543210"},
		{"5550100", "5550100"},
		{"12+34", "1234"},
	}
	for _, tt := range tests {
		if got := normalizePhone(tt.in); got != tt.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBookInFlightKeyIsRejected(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	if _, err := f.guard.Acquire(ctx, service.BookingKey("client-key-1", "555-0103", "DOC-OWNER001", "cough", f.clock.Now())); err != nil {
		t.Fatal(err)
	}
	if _, err := f.usecase.Book(ctx, bookRequest("555-0103", "cough"), "client-key-1"); err != ErrBookingInProgress {
		t.Fatalf("got %v, want ErrBookingInProgress", err)
	}
}

func TestBookUnknownOrPendingDoctor(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	for _, id := range []string{"DOC-NOTHERE", "DOC-PENDING3"} {
		req := bookRequest("555-0104", "rash")
		req.DoctorID = id
		if _, err := f.usecase.Book(ctx, req, ""); err != ErrDoctorNotFound {
			t.Errorf("%s: got %v, want ErrDoctorNotFound", id, err)
		}
	}
	if f.patients.count() != 0 {
		t.Error("patient created for a failed booking")
	}
}

func TestBookKeepsEmailOwnedByAnotherPatient(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	email := "ravi@x.com"
	f.patients.Create(ctx, &entity.Patient{Name: "Email Owner", Email: &email, Phone: "555-9999"})

	resp, err := f.usecase.Book(ctx, bookRequest("555-0105", "checkup"), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if resp.PatientEmail != email {
		t.Errorf("snapshot email = %q", resp.PatientEmail)
	}

	patient, _ := f.patients.FindByID(ctx, resp.PatientID)
	if patient.Email != nil {
		t.Errorf("email reassigned to new patient: %s", *patient.Email)
	}
}

func TestConfirmByOtherDoctorFails(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	booked, err := f.usecase.Book(ctx, bookRequest("555-0106", "back pain"), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	_, err = f.usecase.Confirm(ctx, "DOC-OTHER002", booked.ID, &dto.ConfirmAppointmentRequest{
		TimeSlot: "10:00 AM", AppointmentDate: "2025-03-10",
	})
	if err != ErrAppointmentNotFound {
		t.Fatalf("got %v, want ErrAppointmentNotFound", err)
	}

	stored, _ := f.appointments.FindByID(ctx, booked.ID)
	if !stored.IsPending() {
		t.Error("appointment changed by a non-owner")
	}
}

func TestConfirmSurvivesNotificationFailure(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	f.mailer.failConfirm = true

	booked, err := f.usecase.Book(ctx, bookRequest("555-0107", "migraine"), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	resp, err := f.usecase.Confirm(ctx, "DOC-OWNER001", booked.ID, &dto.ConfirmAppointmentRequest{
		TimeSlot: "10:00 AM", AppointmentDate: "2025-03-10",
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if resp.EmailSent {
		t.Error("email_sent true despite dispatch failure")
	}

	stored, _ := f.appointments.FindByID(ctx, booked.ID)
	if !stored.IsConfirmed() || stored.TimeSlot != "10:00 AM" {
		t.Fatalf("appointment not confirmed: %+v", stored)
	}
	if stored.AppointmentDate == nil || stored.AppointmentDate.Format("2006-01-02") != "2025-03-10" {
		t.Errorf("date = %v", stored.AppointmentDate)
	}
	want := "Your appointment has been confirmed for 10:00 AM on Mar 10, 2025"
	if stored.ConfirmationMessage != want {
		t.Errorf("message = %q, want %q", stored.ConfirmationMessage, want)
	}
}

func TestConfirmSendsEmailAndKeepsCustomMessage(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	booked, err := f.usecase.Book(ctx, bookRequest("555-0108", "allergy"), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	resp, err := f.usecase.Confirm(ctx, "DOC-OWNER001", booked.ID, &dto.ConfirmAppointmentRequest{
		TimeSlot: "2:30 PM", AppointmentDate: "2025-04-01", Message: "Bring your reports.",
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !resp.EmailSent || len(f.mailer.confirmations) != 1 || f.mailer.confirmations[0] != "ravi@x.com" {
		t.Errorf("email_sent=%v confirmations=%v", resp.EmailSent, f.mailer.confirmations)
	}
	if resp.Appointment.ConfirmationMessage != "Bring your reports." {
		t.Errorf("message = %q", resp.Appointment.ConfirmationMessage)
	}
}

func TestSearchDoctors(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	cases := []struct {
		location, specialization string
		want                     int
	}{
		{"", "", 2},
		{"all", "all", 2},
		{"PUNE", "", 1},
		{"pune", "Cardiology", 1},
		{"mumbai", "cardiology", 0},
	}
	for _, c := range cases {
		resp, err := f.usecase.SearchDoctors(ctx, &dto.SearchDoctorsRequest{Location: c.location, Specialization: c.specialization})
		if err != nil {
			t.Fatalf("SearchDoctors: %v", err)
		}
		if resp.Total != c.want {
			t.Errorf("location=%q specialization=%q: got %d, want %d", c.location, c.specialization, resp.Total, c.want)
		}
	}

	home, err := f.usecase.HomeDoctors(ctx)
	if err != nil || home.Total != 2 {
		t.Errorf("HomeDoctors: total=%d err=%v", home.Total, err)
	}
}

func TestPatientAppointments(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	booked, err := f.usecase.Book(ctx, bookRequest("555-0109", "sore throat"), "")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	list, err := f.usecase.PatientAppointments(ctx, booked.PatientID)
	if err != nil {
		t.Fatalf("PatientAppointments: %v", err)
	}
	if list.Total != 1 || list.Appointments[0].ID != booked.ID {
		t.Errorf("unexpected list %+v", list)
	}

	if _, err := f.usecase.PatientAppointments(ctx, "missing"); err != ErrPatientNotFound {
		t.Errorf("got %v, want ErrPatientNotFound", err)
	}
}
