package entity

import "time"

// DoctorStatus represents the admin review state of a doctor application
type DoctorStatus string

const (
	DoctorStatusPending  DoctorStatus = "pending"
	DoctorStatusApproved DoctorStatus = "approved"
	DoctorStatusRejected DoctorStatus = "rejected"
)

// Doctor is a registered practitioner. DoctorID is the public identifier
// referenced by appointments and sessions; ID is the store identifier.
type Doctor struct {
	ID                     string       `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	DoctorID               string       `gorm:"type:varchar(20);uniqueIndex;not null" bson:"doctor_id" json:"doctor_id"`
	Name                   string       `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Email                  string       `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash           string       `gorm:"type:text;not null" bson:"password_hash" json:"-"`
	Phone                  string       `gorm:"type:varchar(20)" bson:"phone" json:"phone"`
	Gender                 string       `gorm:"type:varchar(20)" bson:"gender" json:"gender"`
	Status                 DoctorStatus `gorm:"type:varchar(20);not null;default:'pending';index" bson:"status" json:"status"`
	Specialization         string       `gorm:"type:varchar(100);index" bson:"specialization" json:"specialization"`
	Location               string       `gorm:"type:varchar(100);index" bson:"location" json:"location"`
	HospitalName           string       `gorm:"type:varchar(255)" bson:"hospital_name" json:"hospital_name"`
	MedicalLicenseURL      string       `gorm:"type:text" bson:"medical_license_url" json:"medical_license_url"`
	MedicalLicensePublicID string       `gorm:"type:text" bson:"medical_license_public_id" json:"medical_license_public_id"`
	LicenseUploadedAt      *time.Time   `bson:"license_uploaded_at,omitempty" json:"license_uploaded_at,omitempty"`
	LicenseVerified        bool         `gorm:"not null;default:false" bson:"license_verified" json:"license_verified"`
	LicenseNotes           string       `gorm:"type:text" bson:"license_notes" json:"license_notes"`
	ProfilePicture         string       `gorm:"type:text" bson:"profile_picture" json:"profile_picture"`
	ProfilePicturePublicID string       `gorm:"type:text" bson:"profile_picture_public_id" json:"profile_picture_public_id"`
	CreatedAt              time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time    `bson:"updated_at" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// IsApproved reports whether the doctor can log in and be booked
func (d *Doctor) IsApproved() bool {
	return d.Status == DoctorStatusApproved
}

// Approve marks the application approved and the license verified
func (d *Doctor) Approve() {
	d.Status = DoctorStatusApproved
	d.LicenseVerified = true
}

// DoctorFilter is a domain-level filter for listing and counting doctors.
// Empty fields are not applied.
type DoctorFilter struct {
	Status         DoctorStatus
	Location       string
	Specialization string
}
