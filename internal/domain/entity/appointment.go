package entity

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// UrgencyLevel is the patient-declared urgency of a booking
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// Appointment references a doctor by public id and a patient by store id.
// The Patient* fields are a snapshot taken at booking time.
type Appointment struct {
	ID                  string            `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	DoctorID            string            `gorm:"type:varchar(20);not null;index" bson:"doctor_id" json:"doctor_id"`
	PatientID           string            `gorm:"type:uuid;not null;index" bson:"patient_id" json:"patient_id"`
	PatientName         string            `gorm:"type:varchar(255);not null" bson:"patient_name" json:"patient_name"`
	PatientEmail        string            `gorm:"type:varchar(255)" bson:"patient_email" json:"patient_email"`
	PatientPhone        string            `gorm:"type:varchar(20);not null" bson:"patient_phone" json:"patient_phone"`
	PatientAge          *int              `bson:"patient_age,omitempty" json:"patient_age,omitempty"`
	PatientGender       string            `gorm:"type:varchar(20)" bson:"patient_gender" json:"patient_gender"`
	PatientAddress      string            `gorm:"type:text" bson:"patient_address" json:"patient_address"`
	UrgencyLevel        UrgencyLevel      `gorm:"type:varchar(10);not null;default:'low'" bson:"urgency_level" json:"urgency_level"`
	Description         string            `gorm:"type:text" bson:"description" json:"description"`
	Status              AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" bson:"status" json:"status"`
	TimeSlot            string            `gorm:"type:varchar(50)" bson:"time_slot" json:"time_slot"`
	AppointmentDate     *time.Time        `bson:"appointment_date,omitempty" json:"appointment_date,omitempty"`
	ConfirmationMessage string            `gorm:"type:text" bson:"confirmation_message" json:"confirmation_message"`
	CreatedAt           time.Time         `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `bson:"updated_at" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if appointment is awaiting the doctor
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsConfirmed checks if appointment is confirmed
func (a *Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

// Confirm changes appointment status to confirmed with the assigned slot
func (a *Appointment) Confirm(timeSlot string, date time.Time, message string) {
	a.Status = AppointmentStatusConfirmed
	a.TimeSlot = timeSlot
	a.AppointmentDate = &date
	a.ConfirmationMessage = message
}

// ParseUrgency returns the urgency for s, defaulting to low
func ParseUrgency(s string) UrgencyLevel {
	switch UrgencyLevel(s) {
	case UrgencyMedium:
		return UrgencyMedium
	case UrgencyHigh:
		return UrgencyHigh
	default:
		return UrgencyLow
	}
}
