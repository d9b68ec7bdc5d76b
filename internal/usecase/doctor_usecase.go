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
	"mediconnect/internal/infrastructure/storage"
	"mediconnect/internal/service"
	"mediconnect/pkg/upload"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrDoctorNotApproved   = errors.New("your account is pending admin approval")
	ErrStorageUploadFailed = errors.New("failed to upload file")
	ErrFileRequired        = errors.New("file is required")
	ErrInvalidFileType     = errors.New("invalid file type")
	ErrFileTooLarge        = errors.New("file is too large")
)

const doctorIDAttempts = 5

// UploadPolicy sets where doctor files go and how large they may be
type UploadPolicy struct {
	LicenseFolder string
	ProfileFolder string
	MaxBytes      int64
}

type DoctorUsecase interface {
	Register(ctx context.Context, req *dto.RegisterDoctorRequest, license *upload.File) (*dto.DoctorRegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.DoctorResponse, error)
	GetProfile(ctx context.Context, doctorID string) (*dto.DoctorResponse, error)
	UpdateProfile(ctx context.Context, doctorID string, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error)
	UpdatePicture(ctx context.Context, doctorID string, picture *upload.File) (*dto.DoctorResponse, error)
	Dashboard(ctx context.Context, doctorID string) (*dto.DoctorDashboardResponse, error)
	ListAppointments(ctx context.Context, doctorID string) (*dto.AppointmentListResponse, error)
}

type doctorUsecase struct {
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	storage         storage.FileStorage
	auditService    service.AuditService
	policy          UploadPolicy
	now             func() time.Time
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	fileStorage storage.FileStorage,
	auditService service.AuditService,
	policy UploadPolicy,
) DoctorUsecase {
	return &doctorUsecase{
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		storage:         fileStorage,
		auditService:    auditService,
		policy:          policy,
		now:             time.Now,
	}
}

// Register stores a pending application. The staged license file is
// removed on every path.
func (u *doctorUsecase) Register(ctx context.Context, req *dto.RegisterDoctorRequest, license *upload.File) (*dto.DoctorRegisterResponse, error) {
	defer u.removeStaged(license)

	if err := u.checkFile(license, upload.DocumentTypes); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)

	existing, err := u.doctorRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find doctor by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	now := u.now()
	publicID := fmt.Sprintf("license_%d_%s", now.Unix(), email)
	stored, err := u.storage.Upload(ctx, license.Path, u.policy.LicenseFolder, publicID)
	if err != nil {
		u.log.Errorf("Failed to upload medical license: %+v", err)
		return nil, ErrStorageUploadFailed
	}

	doctor := &entity.Doctor{
		Name:                   strings.TrimSpace(req.Name),
		Email:                  email,
		PasswordHash:           string(hashedPassword),
		Phone:                  strings.TrimSpace(req.Phone),
		Gender:                 req.Gender,
		Status:                 entity.DoctorStatusPending,
		Specialization:         strings.ToLower(strings.TrimSpace(req.Specialization)),
		Location:               strings.ToLower(strings.TrimSpace(req.Location)),
		HospitalName:           strings.TrimSpace(req.HospitalName),
		MedicalLicenseURL:      stored.SecureURL,
		MedicalLicensePublicID: stored.PublicID,
		LicenseUploadedAt:      &now,
	}

	if err := u.createWithUniqueID(ctx, doctor); err != nil {
		u.discardUpload(ctx, stored.PublicID)
		return nil, err
	}

	u.auditService.Record(ctx, email, entity.AuditActionDoctorRegister, "doctor", doctor.DoctorID, entity.JSON{
		"specialization": doctor.Specialization,
		"location":       doctor.Location,
	})

	return &dto.DoctorRegisterResponse{
		DoctorID:          doctor.DoctorID,
		MedicalLicenseURL: doctor.MedicalLicenseURL,
		Status:            string(doctor.Status),
	}, nil
}

// discardUpload removes a stored file whose record was never saved
func (u *doctorUsecase) discardUpload(ctx context.Context, publicID string) {
	if err := u.storage.Delete(ctx, publicID); err != nil {
		u.log.Warnf("Failed to delete orphaned upload %s: %+v", publicID, err)
	}
}

// createWithUniqueID retries public id generation on collision
func (u *doctorUsecase) createWithUniqueID(ctx context.Context, doctor *entity.Doctor) error {
	for attempt := 0; attempt < doctorIDAttempts; attempt++ {
		doctorID, err := generateDoctorID()
		if err != nil {
			return err
		}
		doctor.DoctorID = doctorID

		err = u.doctorRepo.Create(ctx, doctor)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}

		// either the email was taken concurrently or the public id collided
		existing, findErr := u.doctorRepo.FindByEmail(ctx, doctor.Email)
		if findErr != nil {
			return findErr
		}
		if existing != nil {
			return ErrDuplicateEmail
		}
		doctor.ID = ""
	}
	return fmt.Errorf("failed to allocate a unique doctor id after %d attempts", doctorIDAttempts)
}

func (u *doctorUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find doctor by email: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !doctor.IsApproved() {
		return nil, ErrDoctorNotApproved
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetProfile(ctx context.Context, doctorID string) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) UpdateProfile(ctx context.Context, doctorID string, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	doctor.Name = strings.TrimSpace(req.Name)
	doctor.Phone = strings.TrimSpace(req.Phone)
	doctor.Specialization = strings.ToLower(strings.TrimSpace(req.Specialization))
	doctor.Location = strings.ToLower(strings.TrimSpace(req.Location))
	doctor.HospitalName = strings.TrimSpace(req.HospitalName)

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	u.auditService.Record(ctx, doctor.Email, entity.AuditActionDoctorUpdate, "doctor", doctor.DoctorID, nil)

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) UpdatePicture(ctx context.Context, doctorID string, picture *upload.File) (*dto.DoctorResponse, error) {
	defer u.removeStaged(picture)

	if err := u.checkFile(picture, upload.ImageTypes); err != nil {
		return nil, err
	}

	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	publicID := fmt.Sprintf("profile_%s_%d", doctor.DoctorID, u.now().Unix())
	stored, err := u.storage.Upload(ctx, picture.Path, u.policy.ProfileFolder, publicID)
	if err != nil {
		u.log.Errorf("Failed to upload profile picture: %+v", err)
		return nil, ErrStorageUploadFailed
	}

	doctor.ProfilePicture = stored.SecureURL
	doctor.ProfilePicturePublicID = stored.PublicID

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to save profile picture: %+v", err)
		u.discardUpload(ctx, stored.PublicID)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) Dashboard(ctx context.Context, doctorID string) (*dto.DoctorDashboardResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(ctx, doctor.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctor.DoctorID, err)
		return nil, err
	}

	dashboard := &dto.DoctorDashboardResponse{
		Doctor:       converter.DoctorToResponse(doctor),
		Appointments: converter.AppointmentsToResponses(appointments),
	}
	for i := range appointments {
		switch {
		case appointments[i].IsPending():
			dashboard.Pending++
		case appointments[i].IsConfirmed():
			dashboard.Confirmed++
		}
	}

	return dashboard, nil
}

func (u *doctorUsecase) ListAppointments(ctx context.Context, doctorID string) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *doctorUsecase) findDoctor(ctx context.Context, doctorID string) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func (u *doctorUsecase) checkFile(file *upload.File, allowed []string) error {
	if file == nil || file.Size == 0 {
		return ErrFileRequired
	}
	if u.policy.MaxBytes > 0 && file.Size > u.policy.MaxBytes {
		return ErrFileTooLarge
	}

	ok, err := file.HasType(allowed)
	if err != nil {
		u.log.Warnf("Failed to detect file type: %+v", err)
		return ErrInvalidFileType
	}
	if !ok {
		return ErrInvalidFileType
	}
	return nil
}

func (u *doctorUsecase) removeStaged(file *upload.File) {
	if err := file.Remove(); err != nil {
		u.log.Warnf("Failed to remove temporary upload: %+v", err)
	}
}
