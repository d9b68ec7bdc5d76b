package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	Actor     string    `gorm:"type:varchar(255);index" bson:"actor" json:"actor"`
	Action    string    `gorm:"type:varchar(100);not null;index" bson:"action" json:"action"`
	Entity    string    `gorm:"type:varchar(50);not null" bson:"entity" json:"entity"`
	EntityID  string    `gorm:"type:varchar(64);index" bson:"entity_id" json:"entity_id"`
	Metadata  JSON      `gorm:"type:jsonb" bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"index" bson:"created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionDoctorRegister     = "doctor.register"
	AuditActionDoctorApprove      = "doctor.approve"
	AuditActionDoctorReject       = "doctor.reject"
	AuditActionDoctorUpdate       = "doctor.update"
	AuditActionAppointmentBook    = "appointment.book"
	AuditActionAppointmentConfirm = "appointment.confirm"
)
