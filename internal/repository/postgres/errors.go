package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agentflow/agentflow/internal/repository"
)

// mapError translates driver-level failures into repository errors.
// Constraint violations mean a write slipped past service validation:
// the schema refuses to persist an invalid title or status.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation,
			pgerrcode.NotNullViolation,
			pgerrcode.StringDataRightTruncationDataException:
			return repository.ErrInvalidTask
		}
	}
	return err
}
