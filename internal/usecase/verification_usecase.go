package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/infrastructure/mail"
	"mediconnect/internal/infrastructure/oauth"
	"mediconnect/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrGoogleAccount        = errors.New("this email is registered with Google sign-in")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired OTP")
	ErrCodeExpired          = errors.New("OTP has expired")
	ErrEmailDispatchFailed  = errors.New("failed to send email")
	ErrInvalidOAuthState    = errors.New("invalid or expired sign-in state")
	ErrUnverifiedIdentity   = errors.New("google account email is not verified")
)

type VerificationUsecase interface {
	IssueCode(ctx context.Context, req *dto.SendOTPRequest) error
	VerifyCode(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.PatientIdentityResponse, error)
	BeginFederatedSignIn(ctx context.Context) (*dto.GoogleAuthResponse, error)
	CompleteFederatedSignIn(ctx context.Context, state, code string) (*dto.PatientIdentityResponse, error)
}

type verificationUsecase struct {
	log         *logrus.Logger
	codeRepo    repository.OneTimeCodeRepository
	patientRepo repository.PatientRepository
	mailer      mail.Mailer
	provider    oauth.IdentityProvider
	stateStore  service.OAuthStateStore
	codeTTL     time.Duration
	now         func() time.Time
}

func NewVerificationUsecase(
	log *logrus.Logger,
	codeRepo repository.OneTimeCodeRepository,
	patientRepo repository.PatientRepository,
	mailer mail.Mailer,
	provider oauth.IdentityProvider,
	stateStore service.OAuthStateStore,
	codeTTL time.Duration,
) VerificationUsecase {
	return &verificationUsecase{
		log:         log,
		codeRepo:    codeRepo,
		patientRepo: patientRepo,
		mailer:      mailer,
		provider:    provider,
		stateStore:  stateStore,
		codeTTL:     codeTTL,
		now:         time.Now,
	}
}

// IssueCode replaces any outstanding code for the email and mails a new one
func (u *verificationUsecase) IssueCode(ctx context.Context, req *dto.SendOTPRequest) error {
	email := normalizeEmail(req.Email)

	patient, err := u.patientRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find patient by email: %+v", err)
		return err
	}
	if patient != nil && patient.IsGoogleAccount() {
		return ErrGoogleAccount
	}

	if err := u.codeRepo.DeleteByEmail(ctx, email); err != nil {
		u.log.Warnf("Failed to delete previous codes: %+v", err)
		return err
	}

	code, err := generateCode()
	if err != nil {
		u.log.Warnf("Failed to generate code: %+v", err)
		return err
	}

	otp := &entity.OneTimeCode{
		Email:     email,
		Code:      code,
		Verified:  false,
		CreatedAt: u.now(),
	}
	if err := u.codeRepo.Create(ctx, otp); err != nil {
		u.log.Warnf("Failed to store code: %+v", err)
		return err
	}

	if err := u.mailer.SendVerificationCode(email, code); err != nil {
		u.log.WithField("email", email).Errorf("Failed to send verification email: %+v", err)
		return ErrEmailDispatchFailed
	}

	return nil
}

// VerifyCode consumes a code and returns the patient it authenticates,
// creating the patient on first verification.
func (u *verificationUsecase) VerifyCode(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.PatientIdentityResponse, error) {
	email := normalizeEmail(req.Email)

	otp, err := u.codeRepo.FindUnverified(ctx, email, req.OTP)
	if err != nil {
		u.log.Warnf("Failed to find code: %+v", err)
		return nil, err
	}
	if otp == nil {
		return nil, ErrInvalidOrExpiredCode
	}

	if otp.IsExpired(u.now(), u.codeTTL) {
		if err := u.codeRepo.DeleteByID(ctx, otp.ID); err != nil {
			u.log.Warnf("Failed to delete expired code: %+v", err)
		}
		return nil, ErrCodeExpired
	}

	claimed, err := u.codeRepo.MarkVerified(ctx, otp.ID)
	if err != nil {
		u.log.Warnf("Failed to mark code verified: %+v", err)
		return nil, err
	}
	if !claimed {
		// consumed by a concurrent request
		return nil, ErrInvalidOrExpiredCode
	}

	patient, err := u.findOrCreatePatient(ctx, email, displayNameFromEmail(email), entity.PatientVerifiedNormal, "")
	u.consumeCode(ctx, otp.ID)
	if err != nil {
		return nil, err
	}

	return converter.PatientToIdentity(patient), nil
}

// consumeCode deletes a claimed code. A leftover row is already verified
// and FindUnverified never returns it again.
func (u *verificationUsecase) consumeCode(ctx context.Context, id string) {
	if err := u.codeRepo.DeleteByID(ctx, id); err != nil {
		u.log.Warnf("Failed to delete consumed code: %+v", err)
	}
}

func (u *verificationUsecase) BeginFederatedSignIn(ctx context.Context) (*dto.GoogleAuthResponse, error) {
	state := uuid.NewString()
	if err := u.stateStore.Save(ctx, state); err != nil {
		u.log.Warnf("Failed to store oauth state: %+v", err)
		return nil, err
	}

	return &dto.GoogleAuthResponse{AuthURL: u.provider.AuthCodeURL(state)}, nil
}

func (u *verificationUsecase) CompleteFederatedSignIn(ctx context.Context, state, code string) (*dto.PatientIdentityResponse, error) {
	ok, err := u.stateStore.Consume(ctx, state)
	if err != nil {
		u.log.Warnf("Failed to consume oauth state: %+v", err)
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOAuthState
	}

	identity, err := u.provider.Exchange(ctx, code)
	if errors.Is(err, oauth.ErrEmailNotVerified) {
		return nil, ErrUnverifiedIdentity
	}
	if err != nil {
		u.log.Warnf("Failed to complete google sign-in: %+v", err)
		return nil, ErrUpstreamUnavailable
	}
	if identity.Email == "" {
		u.log.Warn("Google sign-in returned no email")
		return nil, ErrUpstreamUnavailable
	}

	email := normalizeEmail(identity.Email)
	name := identity.Name
	if name == "" {
		name = displayNameFromEmail(email)
	}

	patient, err := u.findOrCreatePatient(ctx, email, name, entity.PatientVerifiedGoogle, identity.ExternalID)
	if err != nil {
		return nil, err
	}

	return converter.PatientToIdentity(patient), nil
}

// findOrCreatePatient returns the patient with email, creating one with
// the given verification method when none exists. An existing patient is
// returned unchanged.
func (u *verificationUsecase) findOrCreatePatient(
	ctx context.Context,
	email, name string,
	verified entity.PatientVerification,
	googleID string,
) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByEmail(ctx, email)
	if err != nil {
		u.log.Warnf("Failed to find patient by email: %+v", err)
		return nil, err
	}
	if patient != nil {
		return patient, nil
	}

	suffix, err := randomInt(10000)
	if err != nil {
		return nil, err
	}

	patient = &entity.Patient{
		Name:     name,
		Email:    &email,
		Username: fmt.Sprintf("%s%d", localPart(email), suffix),
		Verified: verified,
		GoogleID: googleID,
	}
	if err := u.patientRepo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// created concurrently by another verification
			return u.patientRepo.FindByEmail(ctx, email)
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	return patient, nil
}
