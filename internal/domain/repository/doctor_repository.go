package repository

import (
	"context"

	"mediconnect/internal/domain/entity"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByEmail(ctx context.Context, email string) (*entity.Doctor, error)
	FindByDoctorID(ctx context.Context, doctorID string) (*entity.Doctor, error)
	FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error)
	Count(ctx context.Context, filter entity.DoctorFilter) (int64, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	DeleteByDoctorID(ctx context.Context, doctorID string) error
}
