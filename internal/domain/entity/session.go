package entity

import "time"

// Session is the server-side state behind a session cookie. Only the
// fields for the session's role are populated.
type Session struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	AdminEmail   string    `json:"admin_email,omitempty"`
	DoctorID     string    `json:"doctor_id,omitempty"`
	DoctorEmail  string    `json:"doctor_email,omitempty"`
	PatientID    string    `json:"patient_id,omitempty"`
	PatientEmail string    `json:"patient_email,omitempty"`
	PatientName  string    `json:"patient_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
