package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/upload"
	"mediconnect/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	licenseField        = "medicalLicense"
	profilePictureField = "profilePicture"
	multipartMemory     = 1 << 20
)

// UploadLimits bounds multipart requests before the usecase sees the file
type UploadLimits struct {
	MaxBytes int64
	TempDir  string
}

type DoctorHandler struct {
	doctorUsecase      usecase.DoctorUsecase
	appointmentUsecase usecase.AppointmentUsecase
	sessions           *SessionManager
	validator          *validator.CustomValidator
	limits             UploadLimits
	log                *logrus.Logger
}

func NewDoctorHandler(
	doctorUsecase usecase.DoctorUsecase,
	appointmentUsecase usecase.AppointmentUsecase,
	sessions *SessionManager,
	validator *validator.CustomValidator,
	limits UploadLimits,
	log *logrus.Logger,
) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase:      doctorUsecase,
		appointmentUsecase: appointmentUsecase,
		sessions:           sessions,
		validator:          validator,
		limits:             limits,
		log:                log,
	}
}

// Register handles doctor sign-up with a medical license upload
// @Summary Register a doctor
// @Tags Doctor
// @Accept multipart/form-data
// @Produce json
// @Param medicalLicense formData file true "PDF, JPEG or PNG license"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /doctors/register [post]
func (h *DoctorHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}

	req := dto.RegisterDoctorRequest{
		Name:           formValue(r, "name"),
		Email:          formValue(r, "email"),
		Password:       r.FormValue("password"),
		Phone:          formValue(r, "phone"),
		Gender:         formValue(r, "gender"),
		Specialization: formValue(r, "specialization"),
		Location:       formValue(r, "location"),
		HospitalName:   formValue(r, "hospital_name", "hospitalName"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	license, ok := h.stageFile(w, r, licenseField)
	if !ok {
		return
	}

	result, err := h.doctorUsecase.Register(r.Context(), &req, license)
	if err != nil {
		h.writeFileError(w, err, "Failed to register doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Registration submitted, awaiting admin approval", result)
}

func (h *DoctorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid email or password")
		case usecase.ErrDoctorNotApproved:
			response.Forbidden(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	session := &entity.Session{
		Role:        entity.RoleDoctor,
		DoctorID:    doctor.DoctorID,
		DoctorEmail: doctor.Email,
	}
	if err := h.sessions.Start(w, r, session); err != nil {
		response.InternalServerError(w, "Failed to start session")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", doctor)
}

func (h *DoctorHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	response.Success(w, http.StatusOK, "Logout successful", nil)
}

func (h *DoctorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.doctorUsecase.Dashboard(r.Context(), currentSession(r).DoctorID)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to load dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *DoctorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.doctorUsecase.GetProfile(r.Context(), currentSession(r).DoctorID)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", doctor)
}

func (h *DoctorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDoctorProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.UpdateProfile(r.Context(), currentSession(r).DoctorID, &req)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", doctor)
}

func (h *DoctorHandler) UpdatePicture(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}

	picture, ok := h.stageFile(w, r, profilePictureField)
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.UpdatePicture(r.Context(), currentSession(r).DoctorID, picture)
	if err != nil {
		h.writeFileError(w, err, "Failed to update profile picture")
		return
	}

	response.Success(w, http.StatusOK, "Profile picture updated successfully", doctor)
}

func (h *DoctorHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.doctorUsecase.ListAppointments(r.Context(), currentSession(r).DoctorID)
	if err != nil {
		h.writeDoctorError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// ConfirmAppointment handles slot assignment by the owning doctor
// @Summary Confirm an appointment
// @Tags Doctor
// @Accept json
// @Produce json
// @Param appointmentId path string true "Appointment ID"
// @Param request body dto.ConfirmAppointmentRequest true "Confirmation"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctors/me/appointments/{appointmentId}/confirm [post]
func (h *DoctorHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.Confirm(r.Context(), currentSession(r).DoctorID, mux.Vars(r)["appointmentId"], &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidAppointmentDate:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to confirm appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment confirmed successfully", result)
}

// parseMultipart caps the body at the upload limit plus room for the text fields
func (h *DoctorHandler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, usecase.ErrFileTooLarge.Error())
			return false
		}
		response.BadRequest(w, "Invalid multipart form")
		return false
	}
	return true
}

// stageFile copies the named part to local disk. A missing part yields a
// nil file so the usecase reports it.
func (h *DoctorHandler) stageFile(w http.ResponseWriter, r *http.Request, field string) (*upload.File, bool) {
	part, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		response.BadRequest(w, "Invalid file upload")
		return nil, false
	}
	defer part.Close()

	file, err := upload.Save(part, header.Filename, h.limits.TempDir, h.limits.MaxBytes)
	if err != nil {
		h.log.Warnf("Failed to stage upload: %+v", err)
		response.InternalServerError(w, "Failed to process upload")
		return nil, false
	}
	return file, true
}

func (h *DoctorHandler) writeFileError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrFileRequired, usecase.ErrInvalidFileType, usecase.ErrFileTooLarge:
		response.BadRequest(w, err.Error())
	case usecase.ErrDuplicateEmail:
		response.Conflict(w, "Email already registered")
	case usecase.ErrStorageUploadFailed:
		response.BadGateway(w, err.Error())
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	default:
		response.InternalServerError(w, fallback)
	}
}

func (h *DoctorHandler) writeDoctorError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	default:
		response.InternalServerError(w, fallback)
	}
}

// formValue returns the first non-empty form field among names
func formValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(r.FormValue(name)); v != "" {
			return v
		}
	}
	return ""
}
