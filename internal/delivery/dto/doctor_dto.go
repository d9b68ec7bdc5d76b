package dto

import "time"

// Request DTOs

// RegisterDoctorRequest is read from a multipart form; the license file
// travels separately.
type RegisterDoctorRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6,max=72"`
	Phone          string `json:"phone" validate:"required,phone"`
	Gender         string `json:"gender" validate:"omitempty,oneof=male female other"`
	Specialization string `json:"specialization" validate:"required,max=100"`
	Location       string `json:"location" validate:"required,max=100"`
	HospitalName   string `json:"hospital_name" validate:"omitempty,max=255"`
}

type UpdateDoctorProfileRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Phone          string `json:"phone" validate:"required,phone"`
	Specialization string `json:"specialization" validate:"required,max=100"`
	Location       string `json:"location" validate:"required,max=100"`
	HospitalName   string `json:"hospital_name" validate:"omitempty,max=255"`
}

type SearchDoctorsRequest struct {
	Location       string `json:"location" validate:"omitempty,max=100"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
}

// Response DTOs

// DoctorResponse is the full record shown to the doctor and the admin
type DoctorResponse struct {
	DoctorID          string     `json:"doctor_id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Gender            string     `json:"gender,omitempty"`
	Status            string     `json:"status"`
	Specialization    string     `json:"specialization"`
	Location          string     `json:"location"`
	HospitalName      string     `json:"hospital_name,omitempty"`
	MedicalLicenseURL string     `json:"medical_license_url,omitempty"`
	LicenseUploadedAt *time.Time `json:"license_uploaded_at,omitempty"`
	LicenseVerified   bool       `json:"license_verified"`
	LicenseNotes      string     `json:"license_notes,omitempty"`
	ProfilePicture    string     `json:"profile_picture,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// DoctorSummaryResponse is the public listing shown to patients
type DoctorSummaryResponse struct {
	DoctorID       string `json:"doctor_id"`
	Name           string `json:"name"`
	Gender         string `json:"gender,omitempty"`
	Specialization string `json:"specialization"`
	Location       string `json:"location"`
	HospitalName   string `json:"hospital_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorSummaryResponse `json:"doctors"`
	Total   int                     `json:"total"`
}

type DoctorRegisterResponse struct {
	DoctorID          string `json:"doctor_id"`
	MedicalLicenseURL string `json:"medical_license_url"`
	Status            string `json:"status"`
}

type DoctorDashboardResponse struct {
	Doctor       *DoctorResponse       `json:"doctor"`
	Appointments []AppointmentResponse `json:"appointments"`
	Pending      int                   `json:"pending"`
	Confirmed    int                   `json:"confirmed"`
}
