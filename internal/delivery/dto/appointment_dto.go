package dto

import "time"

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID     string `json:"doctor_id" validate:"required"`
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"required,phone"`
	Age          *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender       string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address      string `json:"address" validate:"omitempty,max=500"`
	UrgencyLevel string `json:"urgency_level" validate:"omitempty,oneof=low medium high"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
}

type ConfirmAppointmentRequest struct {
	TimeSlot        string `json:"time_slot" validate:"required,max=50"`
	AppointmentDate string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	Message         string `json:"message" validate:"omitempty,max=1000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                  string     `json:"id"`
	DoctorID            string     `json:"doctor_id"`
	PatientID           string     `json:"patient_id"`
	PatientName         string     `json:"patient_name"`
	PatientEmail        string     `json:"patient_email,omitempty"`
	PatientPhone        string     `json:"patient_phone"`
	PatientAge          *int       `json:"patient_age,omitempty"`
	PatientGender       string     `json:"patient_gender,omitempty"`
	PatientAddress      string     `json:"patient_address,omitempty"`
	UrgencyLevel        string     `json:"urgency_level"`
	Description         string     `json:"description,omitempty"`
	Status              string     `json:"status"`
	TimeSlot            string     `json:"time_slot,omitempty"`
	AppointmentDate     *time.Time `json:"appointment_date,omitempty"`
	ConfirmationMessage string     `json:"confirmation_message,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type ConfirmAppointmentResponse struct {
	Appointment *AppointmentResponse `json:"appointment"`
	EmailSent   bool                 `json:"email_sent"`
}
