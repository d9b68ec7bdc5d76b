package entity

import "time"

// PatientVerification records how a patient proved control of their email
type PatientVerification string

const (
	PatientVerifiedGoogle PatientVerification = "google"
	PatientVerifiedNormal PatientVerification = "normal"
)

// Patient is created lazily on first OTP verification, federated sign-in
// or booking. Email is optional and unique only when present.
type Patient struct {
	ID        string              `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	Name      string              `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Email     *string             `gorm:"type:varchar(255);index:idx_patients_email,unique,where:email IS NOT NULL" bson:"email,omitempty" json:"email,omitempty"`
	Username  string              `gorm:"type:varchar(100)" bson:"username" json:"username"`
	Age       *int                `bson:"age,omitempty" json:"age,omitempty"`
	Gender    string              `gorm:"type:varchar(20)" bson:"gender" json:"gender"`
	Phone     string              `gorm:"type:varchar(20);index" bson:"phone" json:"phone"`
	Address   string              `gorm:"type:text" bson:"address" json:"address"`
	Verified  PatientVerification `gorm:"type:varchar(10);not null;default:'normal'" bson:"verified" json:"verified"`
	GoogleID  string              `gorm:"type:varchar(64)" bson:"google_id,omitempty" json:"-"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// EmailValue returns the email or an empty string
func (p *Patient) EmailValue() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}

// IsGoogleAccount reports whether the patient signed up through Google
func (p *Patient) IsGoogleAccount() bool {
	return p.Verified == PatientVerifiedGoogle
}
