package repository

import (
	"context"

	"mediconnect/internal/domain/entity"
)

type OneTimeCodeRepository interface {
	Create(ctx context.Context, code *entity.OneTimeCode) error
	// FindUnverified returns the unverified code matching email and code exactly.
	FindUnverified(ctx context.Context, email, code string) (*entity.OneTimeCode, error)
	// MarkVerified flips an unverified code to verified and reports whether
	// this call did it. A second caller for the same code gets false.
	MarkVerified(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string) error
}
