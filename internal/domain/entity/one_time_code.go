package entity

import "time"

// OneTimeCode is an emailed 6-digit code. It is deleted once verified,
// expired or superseded by a newer code for the same email.
type OneTimeCode struct {
	ID        string    `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;index" bson:"email" json:"email"`
	Code      string    `gorm:"type:char(6);not null" bson:"code" json:"-"`
	Verified  bool      `gorm:"not null;default:false" bson:"verified" json:"verified"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (OneTimeCode) TableName() string {
	return "one_time_codes"
}

// AgeMinutes returns the code age in minutes at now
func (c *OneTimeCode) AgeMinutes(now time.Time) float64 {
	return now.Sub(c.CreatedAt).Minutes()
}

// IsExpired reports whether the code is older than ttl at now
func (c *OneTimeCode) IsExpired(now time.Time, ttl time.Duration) bool {
	return c.AgeMinutes(now) > ttl.Minutes()
}
