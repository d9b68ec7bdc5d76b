package repository

import (
	"context"
	"errors"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type oneTimeCodeRepository struct {
	db *gorm.DB
}

func NewOneTimeCodeRepository(db *gorm.DB) domainRepo.OneTimeCodeRepository {
	return &oneTimeCodeRepository{db: db}
}

func (r *oneTimeCodeRepository) Create(ctx context.Context, code *entity.OneTimeCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *oneTimeCodeRepository) FindUnverified(ctx context.Context, email, code string) (*entity.OneTimeCode, error) {
	var otp entity.OneTimeCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND verified = ?", email, code, false).
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

func (r *oneTimeCodeRepository) MarkVerified(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.OneTimeCode{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verified", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *oneTimeCodeRepository) DeleteByID(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.OneTimeCode{}).Error
}

func (r *oneTimeCodeRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&entity.OneTimeCode{}).Error
}
