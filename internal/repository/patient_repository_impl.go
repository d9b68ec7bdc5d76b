package repository

import (
	"context"
	"errors"
	"time"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	return translateError(r.db.WithContext(ctx).Create(patient).Error)
}

func (r *patientRepository) FindByID(ctx context.Context, id string) (*entity.Patient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.findOne(ctx, "id = ?", id)
}

func (r *patientRepository) FindByEmail(ctx context.Context, email string) (*entity.Patient, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *patientRepository) FindByPhone(ctx context.Context, phone string) (*entity.Patient, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

func (r *patientRepository) findOne(ctx context.Context, query string, arg interface{}) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Where(query, arg).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	patient.UpdatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Save(patient).Error)
}
