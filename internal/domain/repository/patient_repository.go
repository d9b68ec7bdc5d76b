package repository

import (
	"context"

	"mediconnect/internal/domain/entity"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	FindByID(ctx context.Context, id string) (*entity.Patient, error)
	FindByEmail(ctx context.Context, email string) (*entity.Patient, error)
	FindByPhone(ctx context.Context, phone string) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
}
