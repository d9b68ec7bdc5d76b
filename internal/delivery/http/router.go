package http

import (
	"net/http"

	"mediconnect/internal/delivery/http/handler"
	"mediconnect/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	adminHandler      *handler.AdminHandler
	doctorHandler     *handler.DoctorHandler
	patientHandler    *handler.PatientHandler
	symptomHandler    *handler.SymptomHandler
	sessionMiddleware *middleware.SessionMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
}

func NewRouter(
	adminHandler *handler.AdminHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	symptomHandler *handler.SymptomHandler,
	sessionMiddleware *middleware.SessionMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		adminHandler:      adminHandler,
		doctorHandler:     doctorHandler,
		patientHandler:    patientHandler,
		symptomHandler:    symptomHandler,
		sessionMiddleware: sessionMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Preflight requests never reach a method-restricted route
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.Use(r.sessionMiddleware.LoadSession)

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Admin routes (public)
	api.HandleFunc("/admin/login", r.adminHandler.Login).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/logout", r.adminHandler.Logout).Methods(http.MethodPost)
	admin.HandleFunc("/dashboard", r.adminHandler.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{doctorId}", r.adminHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{doctorId}/approve", r.adminHandler.ApproveDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{doctorId}/reject", r.adminHandler.RejectDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", r.adminHandler.AuditLogs).Methods(http.MethodGet)

	// Doctor routes (public)
	api.HandleFunc("/doctors/register", r.doctorHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/doctors/login", r.doctorHandler.Login).Methods(http.MethodPost)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("/doctors").Subrouter()
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/logout", r.doctorHandler.Logout).Methods(http.MethodPost)
	doctor.HandleFunc("/me/dashboard", r.doctorHandler.Dashboard).Methods(http.MethodGet)
	doctor.HandleFunc("/me/profile", r.doctorHandler.GetProfile).Methods(http.MethodGet)
	doctor.HandleFunc("/me/profile", r.doctorHandler.UpdateProfile).Methods(http.MethodPut)
	doctor.HandleFunc("/me/profile/picture", r.doctorHandler.UpdatePicture).Methods(http.MethodPost)
	doctor.HandleFunc("/me/appointments", r.doctorHandler.ListAppointments).Methods(http.MethodGet)
	doctor.HandleFunc("/me/appointments/{appointmentId}/confirm", r.doctorHandler.ConfirmAppointment).Methods(http.MethodPost)

	// Patient routes (public)
	api.HandleFunc("/patients/home", r.patientHandler.Home).Methods(http.MethodGet)
	api.HandleFunc("/patients/doctors", r.patientHandler.SearchDoctors).Methods(http.MethodGet)
	api.HandleFunc("/patients/otp/send", r.patientHandler.SendOTP).Methods(http.MethodPost)
	api.HandleFunc("/patients/otp/verify", r.patientHandler.VerifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/patients/auth/google", r.patientHandler.GoogleAuth).Methods(http.MethodGet)
	api.HandleFunc("/patients/auth/google/callback", r.patientHandler.GoogleCallback).Methods(http.MethodGet)
	api.HandleFunc("/patients/appointments", r.patientHandler.BookAppointment).Methods(http.MethodPost)

	// Patient routes (protected - patient only)
	patient := api.PathPrefix("/patients").Subrouter()
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/me/appointments", r.patientHandler.MyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/logout", r.patientHandler.Logout).Methods(http.MethodPost)

	// Symptom checker (public)
	api.HandleFunc("/symptom-checker/search", r.symptomHandler.Search).Methods(http.MethodPost)

	// Add CORS and request logging middleware
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
