package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/infrastructure/mail"
	"mediconnect/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrBookingInProgress      = errors.New("an identical booking is already being processed")
	ErrInvalidAppointmentDate = errors.New("invalid appointment date, use YYYY-MM-DD")
)

const (
	appointmentDateLayout = "2006-01-02"
	confirmationDateStyle = "Jan 2, 2006"
)

type AppointmentUsecase interface {
	Book(ctx context.Context, req *dto.BookAppointmentRequest, idempotencyKey string) (*dto.AppointmentResponse, error)
	Confirm(ctx context.Context, doctorID, appointmentID string, req *dto.ConfirmAppointmentRequest) (*dto.ConfirmAppointmentResponse, error)
	SearchDoctors(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.DoctorListResponse, error)
	HomeDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	PatientAppointments(ctx context.Context, patientID string) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	mailer          mail.Mailer
	bookingGuard    service.BookingGuard
	auditService    service.AuditService
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	mailer mail.Mailer,
	bookingGuard service.BookingGuard,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		mailer:          mailer,
		bookingGuard:    bookingGuard,
		auditService:    auditService,
		now:             time.Now,
	}
}

// Book creates a pending appointment, creating or refreshing the patient
// identified by phone. Repeated submissions with the same idempotency key
// return the first appointment.
func (u *appointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest, idempotencyKey string) (*dto.AppointmentResponse, error) {
	doctor, err := u.doctorRepo.FindByDoctorID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil || !doctor.IsApproved() {
		return nil, ErrDoctorNotFound
	}

	key := service.BookingKey(idempotencyKey, normalizePhone(req.Phone), req.DoctorID, req.Description, u.now())
	held := true
	stale := ""
	existingID, err := u.bookingGuard.Acquire(ctx, key)
	switch {
	case errors.Is(err, service.ErrBookingInFlight):
		return nil, ErrBookingInProgress
	case err != nil:
		// the guard only narrows a race, so carry on without it
		u.log.Warnf("Failed to acquire booking key: %+v", err)
		held = false
	case existingID != "":
		held = false
		existing, err := u.appointmentRepo.FindByID(ctx, existingID)
		if err != nil {
			u.log.Warnf("Failed to load earlier booking %s: %+v", existingID, err)
			return nil, err
		}
		if existing != nil {
			return converter.AppointmentToResponse(existing), nil
		}
		// the recorded appointment is gone; repoint the key at the new one
		stale = existingID
	}

	appointment, err := u.book(ctx, req)
	if err != nil {
		if held {
			u.bookingGuard.Release(ctx, key)
		}
		return nil, err
	}

	switch {
	case held:
		if err := u.bookingGuard.Complete(ctx, key, appointment.ID); err != nil {
			u.log.Warnf("Failed to record booking key: %+v", err)
		}
	case stale != "":
		if err := u.bookingGuard.Replace(ctx, key, stale, appointment.ID); err != nil {
			u.log.Warnf("Failed to replace stale booking key: %+v", err)
		}
	}

	u.auditService.Record(ctx, appointment.PatientID, entity.AuditActionAppointmentBook, "appointment", appointment.ID, entity.JSON{
		"doctor_id":     appointment.DoctorID,
		"urgency_level": appointment.UrgencyLevel,
	})

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) book(ctx context.Context, req *dto.BookAppointmentRequest) (*entity.Appointment, error) {
	email := normalizeEmail(req.Email)
	phone := normalizePhone(req.Phone)

	patient, err := u.upsertPatientByPhone(ctx, req, phone, email)
	if err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		DoctorID:       req.DoctorID,
		PatientID:      patient.ID,
		PatientName:    strings.TrimSpace(req.Name),
		PatientEmail:   email,
		PatientPhone:   phone,
		PatientAge:     req.Age,
		PatientGender:  req.Gender,
		PatientAddress: strings.TrimSpace(req.Address),
		UrgencyLevel:   entity.ParseUrgency(req.UrgencyLevel),
		Description:    strings.TrimSpace(req.Description),
		Status:         entity.AppointmentStatusPending,
		CreatedAt:      u.now(),
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	return appointment, nil
}

// upsertPatientByPhone overwrites the demographic fields of the patient with
// this phone, or creates one. An email already owned by a different patient
// is kept on the appointment but not moved onto this patient.
func (u *appointmentUsecase) upsertPatientByPhone(ctx context.Context, req *dto.BookAppointmentRequest, phone, email string) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByPhone(ctx, phone)
	if err != nil {
		u.log.Warnf("Failed to find patient by phone: %+v", err)
		return nil, err
	}

	assignEmail := email != ""
	if assignEmail && (patient == nil || patient.EmailValue() != email) {
		owner, err := u.patientRepo.FindByEmail(ctx, email)
		if err != nil {
			u.log.Warnf("Failed to find patient by email: %+v", err)
			return nil, err
		}
		if owner != nil && (patient == nil || owner.ID != patient.ID) {
			u.log.WithField("patient_id", owner.ID).Info("Booking email belongs to another patient; not reassigning")
			assignEmail = false
		}
	}

	if patient == nil {
		suffix, err := randomInt(1000)
		if err != nil {
			return nil, err
		}
		patient = &entity.Patient{
			Name:     strings.TrimSpace(req.Name),
			Username: fmt.Sprintf("patient%d%d", u.now().UnixMilli(), suffix),
			Age:      req.Age,
			Gender:   req.Gender,
			Phone:    phone,
			Address:  strings.TrimSpace(req.Address),
			Verified: entity.PatientVerifiedNormal,
		}
		if assignEmail {
			patient.Email = &email
		}
		if err := u.patientRepo.Create(ctx, patient); err != nil {
			u.log.Warnf("Failed to create patient: %+v", err)
			return nil, err
		}
		return patient, nil
	}

	patient.Name = strings.TrimSpace(req.Name)
	patient.Age = req.Age
	patient.Gender = req.Gender
	patient.Address = strings.TrimSpace(req.Address)
	if assignEmail {
		patient.Email = &email
	}

	if err := u.patientRepo.Update(ctx, patient); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", patient.ID, err)
		return nil, err
	}
	return patient, nil
}

// Confirm assigns a slot to an appointment owned by doctorID. The
// notification email is best-effort and never undoes the confirmation.
func (u *appointmentUsecase) Confirm(ctx context.Context, doctorID, appointmentID string, req *dto.ConfirmAppointmentRequest) (*dto.ConfirmAppointmentResponse, error) {
	date, err := time.Parse(appointmentDateLayout, req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidAppointmentDate
	}

	appointment, err := u.appointmentRepo.FindByIDAndDoctor(ctx, appointmentID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	timeSlot := strings.TrimSpace(req.TimeSlot)
	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = fmt.Sprintf("Your appointment has been confirmed for %s on %s", timeSlot, date.Format(confirmationDateStyle))
	}

	appointment.Confirm(timeSlot, date, message)

	if err := u.appointmentRepo.Update(ctx, appointment); err != nil {
		u.log.Warnf("Failed to confirm appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	u.auditService.Record(ctx, doctorID, entity.AuditActionAppointmentConfirm, "appointment", appointment.ID, entity.JSON{
		"time_slot":        timeSlot,
		"appointment_date": req.AppointmentDate,
	})

	return &dto.ConfirmAppointmentResponse{
		Appointment: converter.AppointmentToResponse(appointment),
		EmailSent:   u.notifyConfirmation(ctx, doctorID, appointment, date),
	}, nil
}

func (u *appointmentUsecase) notifyConfirmation(ctx context.Context, doctorID string, appointment *entity.Appointment, date time.Time) bool {
	if appointment.PatientEmail == "" {
		return false
	}

	details := mail.ConfirmationDetails{
		PatientName: appointment.PatientName,
		TimeSlot:    appointment.TimeSlot,
		Date:        date.Format(confirmationDateStyle),
		Message:     appointment.ConfirmationMessage,
	}

	doctor, err := u.doctorRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load doctor for confirmation email: %+v", err)
	}
	if doctor != nil {
		details.DoctorName = doctor.Name
		details.Hospital = doctor.HospitalName
	}

	if err := u.mailer.SendAppointmentConfirmation(appointment.PatientEmail, details); err != nil {
		u.log.WithField("appointment_id", appointment.ID).Errorf("Failed to send confirmation email: %+v", err)
		return false
	}
	return true
}

func (u *appointmentUsecase) SearchDoctors(ctx context.Context, req *dto.SearchDoctorsRequest) (*dto.DoctorListResponse, error) {
	return u.listApproved(ctx, entity.DoctorFilter{
		Status:         entity.DoctorStatusApproved,
		Location:       lowerOrAll(req.Location),
		Specialization: lowerOrAll(req.Specialization),
	})
}

func (u *appointmentUsecase) HomeDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	return u.listApproved(ctx, entity.DoctorFilter{Status: entity.DoctorStatusApproved})
}

func (u *appointmentUsecase) listApproved(ctx context.Context, filter entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToSummaries(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *appointmentUsecase) PatientAppointments(ctx context.Context, patientID string) (*dto.AppointmentListResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointments, err := u.appointmentRepo.FindByPatientID(ctx, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
