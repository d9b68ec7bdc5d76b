package repository

import (
	"context"

	"mediconnect/internal/domain/entity"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	FindByIDAndDoctor(ctx context.Context, id, doctorID string) (*entity.Appointment, error)
	FindByDoctorID(ctx context.Context, doctorID string) ([]entity.Appointment, error)
	FindByPatientID(ctx context.Context, patientID string) ([]entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
}
