package handler

import (
	"encoding/json"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"
)

const idempotencyHeader = "Idempotency-Key"

type PatientHandler struct {
	verificationUsecase usecase.VerificationUsecase
	appointmentUsecase  usecase.AppointmentUsecase
	sessions            *SessionManager
	validator           *validator.CustomValidator
	signInRedirect      string
}

// NewPatientHandler wires the patient portal. signInRedirect is where the
// browser lands after a successful federated sign-in.
func NewPatientHandler(
	verificationUsecase usecase.VerificationUsecase,
	appointmentUsecase usecase.AppointmentUsecase,
	sessions *SessionManager,
	validator *validator.CustomValidator,
	signInRedirect string,
) *PatientHandler {
	return &PatientHandler{
		verificationUsecase: verificationUsecase,
		appointmentUsecase:  appointmentUsecase,
		sessions:            sessions,
		validator:           validator,
		signInRedirect:      signInRedirect,
	}
}

func (h *PatientHandler) Home(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.appointmentUsecase.HomeDoctors(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

// SearchDoctors filters approved doctors by query parameters
// @Summary Search approved doctors
// @Tags Patient
// @Produce json
// @Param location query string false "Location, or all"
// @Param specialization query string false "Specialization, or all"
// @Success 200 {object} response.Response
// @Router /patients/doctors [get]
func (h *PatientHandler) SearchDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.SearchDoctorsRequest{
		Location:       query.Get("location"),
		Specialization: query.Get("specialization"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctors, err := h.appointmentUsecase.SearchDoctors(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to search doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *PatientHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.verificationUsecase.IssueCode(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrGoogleAccount:
			response.BadRequest(w, "This email is registered with Google. Please sign in with Google.")
		case usecase.ErrEmailDispatchFailed:
			response.BadGateway(w, "Failed to send OTP email")
		default:
			response.InternalServerError(w, "Failed to send OTP")
		}
		return
	}

	response.Success(w, http.StatusOK, "OTP sent to your email", nil)
}

// VerifyOTP checks the emailed code and starts a patient session
// @Summary Verify an email code
// @Tags Patient
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email and code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /patients/otp/verify [post]
func (h *PatientHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.verificationUsecase.VerifyCode(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidOrExpiredCode:
			response.BadRequest(w, "Invalid or expired OTP")
		case usecase.ErrCodeExpired:
			response.BadRequest(w, "OTP has expired. Please request a new one.")
		default:
			response.InternalServerError(w, "Failed to verify OTP")
		}
		return
	}

	if err := h.startPatientSession(w, r, patient); err != nil {
		response.InternalServerError(w, "Failed to start session")
		return
	}

	response.Success(w, http.StatusOK, "Email verified successfully", patient)
}

func (h *PatientHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	auth, err := h.verificationUsecase.BeginFederatedSignIn(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to start Google sign-in")
		return
	}

	http.Redirect(w, r, auth.AuthURL, http.StatusFound)
}

func (h *PatientHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("error") != "" {
		response.Unauthorized(w, "Google sign-in was cancelled")
		return
	}

	patient, err := h.verificationUsecase.CompleteFederatedSignIn(r.Context(), query.Get("state"), query.Get("code"))
	if err != nil {
		switch err {
		case usecase.ErrInvalidOAuthState:
			response.BadRequest(w, "Invalid or expired sign-in state")
		case usecase.ErrUnverifiedIdentity:
			response.Forbidden(w, "Google account email is not verified")
		case usecase.ErrUpstreamUnavailable:
			response.BadGateway(w, "Google sign-in failed")
		default:
			response.InternalServerError(w, "Failed to complete Google sign-in")
		}
		return
	}

	if err := h.startPatientSession(w, r, patient); err != nil {
		response.InternalServerError(w, "Failed to start session")
		return
	}

	http.Redirect(w, r, h.signInRedirect, http.StatusFound)
}

// BookAppointment creates a pending appointment; a repeated submission
// returns the first one
// @Summary Book an appointment
// @Tags Patient
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client retry key"
// @Param request body dto.BookAppointmentRequest true "Booking"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients/appointments [post]
func (h *PatientHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), &req, r.Header.Get(idempotencyHeader))
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrBookingInProgress:
			response.Conflict(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *PatientHandler) MyAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.PatientAppointments(r.Context(), currentSession(r).PatientID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *PatientHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	response.Success(w, http.StatusOK, "Logout successful", nil)
}

func (h *PatientHandler) startPatientSession(w http.ResponseWriter, r *http.Request, patient *dto.PatientIdentityResponse) error {
	return h.sessions.Start(w, r, &entity.Session{
		Role:         entity.RolePatient,
		PatientID:    patient.ID,
		PatientEmail: patient.Email,
		PatientName:  patient.Name,
	})
}
