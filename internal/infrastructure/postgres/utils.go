package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/waterfire-source/Mycalinks-sub015/internal/domain"
)

const (
	codeUniqueViolation  = "23505"
	codeLockNotAvailable = "55P03"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isLockNotAvailable: venció lock_timeout esperando una fila bloqueada por otra transacción.
func isLockNotAvailable(err error) bool {
	return pgCode(err) == codeLockNotAvailable
}

// wrapLockErr traduce la espera vencida a ErrConflict; el resto se envuelve con op.
func wrapLockErr(op string, err error) error {
	if isLockNotAvailable(err) {
		return fmt.Errorf("%w: %s: fila en uso por otra operación", domain.ErrConflict, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
