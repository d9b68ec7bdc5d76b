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

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	return translateError(r.db.WithContext(ctx).Create(doctor).Error)
}

func (r *doctorRepository) FindByEmail(ctx context.Context, email string) (*entity.Doctor, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *doctorRepository) FindByDoctorID(ctx context.Context, doctorID string) (*entity.Doctor, error) {
	return r.findOne(ctx, "doctor_id = ?", doctorID)
}

func (r *doctorRepository) findOne(ctx context.Context, query string, arg interface{}) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := r.db.WithContext(ctx).Where(query, arg).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := applyDoctorFilter(r.db.WithContext(ctx), filter).
		Order("created_at DESC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Count(ctx context.Context, filter entity.DoctorFilter) (int64, error) {
	var count int64
	err := applyDoctorFilter(r.db.WithContext(ctx).Model(&entity.Doctor{}), filter).Count(&count).Error
	return count, err
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	doctor.UpdatedAt = time.Now()
	return translateError(r.db.WithContext(ctx).Save(doctor).Error)
}

func (r *doctorRepository) DeleteByDoctorID(ctx context.Context, doctorID string) error {
	return r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).Delete(&entity.Doctor{}).Error
}

func applyDoctorFilter(db *gorm.DB, filter entity.DoctorFilter) *gorm.DB {
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Location != "" {
		db = db.Where("location = ?", filter.Location)
	}
	if filter.Specialization != "" {
		db = db.Where("specialization = ?", filter.Specialization)
	}
	return db
}
