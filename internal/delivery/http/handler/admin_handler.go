package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"

	"github.com/gorilla/mux"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
	sessions     *SessionManager
	validator    *validator.CustomValidator
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, sessions *SessionManager, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		sessions:     sessions,
		validator:    validator,
	}
}

// Login handles admin login
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	admin, err := h.adminUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid email or password")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	if err := h.sessions.Start(w, r, &entity.Session{Role: entity.RoleAdmin, AdminEmail: admin.Email}); err != nil {
		response.InternalServerError(w, "Failed to start session")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", admin)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	response.Success(w, http.StatusOK, "Logout successful", nil)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.adminUsecase.Dashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to load dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *AdminHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.adminUsecase.GetDoctor(r.Context(), mux.Vars(r)["doctorId"])
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to get doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

// ApproveDoctor handles doctor approval
// @Summary Approve a pending doctor
// @Tags Admin
// @Produce json
// @Param doctorId path string true "Public doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/doctors/{doctorId}/approve [post]
func (h *AdminHandler) ApproveDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.adminUsecase.Approve(r.Context(), currentSession(r).AdminEmail, mux.Vars(r)["doctorId"])
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to approve doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor approved successfully", doctor)
}

// RejectDoctor deletes the application
// @Summary Reject a doctor application
// @Tags Admin
// @Produce json
// @Param doctorId path string true "Public doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/doctors/{doctorId}/reject [post]
func (h *AdminHandler) RejectDoctor(w http.ResponseWriter, r *http.Request) {
	if err := h.adminUsecase.Reject(r.Context(), currentSession(r).AdminEmail, mux.Vars(r)["doctorId"]); err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to reject doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor application rejected and removed", nil)
}

func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, maxAuditLimit)
	}

	logs, err := h.adminUsecase.AuditLogs(r.Context(), limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", logs)
}
