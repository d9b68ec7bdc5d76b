package usecase

import (
	"context"
	"crypto/subtle"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials is the single configured administrator account
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

type AdminUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AdminResponse, error)
	Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
	GetDoctor(ctx context.Context, doctorID string) (*dto.DoctorResponse, error)
	Approve(ctx context.Context, actor, doctorID string) (*dto.DoctorResponse, error)
	Reject(ctx context.Context, actor, doctorID string) error
	AuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error)
}

type adminUsecase struct {
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	credentials  AdminCredentials
}

func NewAdminUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	credentials AdminCredentials,
) AdminUsecase {
	return &adminUsecase{
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		credentials:  credentials,
	}
}

func (u *adminUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AdminResponse, error) {
	email := normalizeEmail(req.Email)

	emailMatches := subtle.ConstantTimeCompare([]byte(email), []byte(u.credentials.Email)) == 1
	// always run bcrypt so timing does not reveal the admin email
	passwordErr := bcrypt.CompareHashAndPassword([]byte(u.credentials.PasswordHash), []byte(req.Password))

	if !emailMatches || passwordErr != nil {
		u.log.WithField("email", email).Warn("Failed admin login attempt")
		return nil, ErrInvalidCredentials
	}

	return &dto.AdminResponse{Email: u.credentials.Email}, nil
}

func (u *adminUsecase) Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	pending, err := u.doctorRepo.FindAll(ctx, entity.DoctorFilter{Status: entity.DoctorStatusPending})
	if err != nil {
		u.log.Warnf("Failed to list pending doctors: %+v", err)
		return nil, err
	}

	approved, err := u.doctorRepo.FindAll(ctx, entity.DoctorFilter{Status: entity.DoctorStatusApproved})
	if err != nil {
		u.log.Warnf("Failed to list approved doctors: %+v", err)
		return nil, err
	}

	rejectedCount, err := u.doctorRepo.Count(ctx, entity.DoctorFilter{Status: entity.DoctorStatusRejected})
	if err != nil {
		u.log.Warnf("Failed to count rejected doctors: %+v", err)
		return nil, err
	}

	totalCount, err := u.doctorRepo.Count(ctx, entity.DoctorFilter{})
	if err != nil {
		u.log.Warnf("Failed to count doctors: %+v", err)
		return nil, err
	}

	return &dto.AdminDashboardResponse{
		PendingDoctors:  converter.DoctorsToResponses(pending),
		ApprovedDoctors: converter.DoctorsToResponses(approved),
		ApprovedCount:   int64(len(approved)),
		RejectedCount:   rejectedCount,
		TotalCount:      totalCount,
	}, nil
}

func (u *adminUsecase) GetDoctor(ctx context.Context, doctorID string) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

// Approve makes the doctor bookable and marks the license verified
func (u *adminUsecase) Approve(ctx context.Context, actor, doctorID string) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	previous := doctor.Status
	doctor.Approve()

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to approve doctor %s: %+v", doctorID, err)
		return nil, err
	}

	u.auditService.Record(ctx, actor, entity.AuditActionDoctorApprove, "doctor", doctor.DoctorID, entity.JSON{
		"old_status": previous,
		"new_status": doctor.Status,
	})

	return converter.DoctorToResponse(doctor), nil
}

// Reject deletes the application outright
func (u *adminUsecase) Reject(ctx context.Context, actor, doctorID string) error {
	doctor, err := u.doctorRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if err := u.doctorRepo.DeleteByDoctorID(ctx, doctorID); err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", doctorID, err)
		return err
	}

	u.auditService.Record(ctx, actor, entity.AuditActionDoctorReject, "doctor", doctorID, entity.JSON{
		"email":               doctor.Email,
		"name":                doctor.Name,
		"medical_license_url": doctor.MedicalLicenseURL,
	})

	return nil
}

func (u *adminUsecase) AuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditService.Recent(ctx, limit)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
