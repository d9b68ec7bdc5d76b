package repository

import (
	"errors"

	domainRepo "mediconnect/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// translateError maps a PostgreSQL unique_violation (23505) to the
// store-agnostic ErrDuplicateKey
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domainRepo.ErrDuplicateKey
	}
	return err
}
