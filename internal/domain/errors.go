package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")

	// Libro de stock
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrInvalidPrice        = errors.New("precio mayorista inválido")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrLedgerInconsistency = errors.New("inconsistencia en el libro de stock")
	ErrLotNotFound         = errors.New("lote de costo no encontrado")
	ErrDisallowedRollback  = errors.New("la operación no admite reversión")
	ErrAlreadyRolledBack   = errors.New("la operación ya fue revertida")
)

// IsClientError indica errores esperados causados por la entrada del usuario (4xx, reintentables corrigiendo datos).
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrLotNotFound),
		errors.Is(err, ErrDisallowedRollback),
		errors.Is(err, ErrAlreadyRolledBack):
		return true
	}
	return false
}

// IsFatal indica corrupción de datos: la petición completa debe abortarse y registrarse.
func IsFatal(err error) bool {
	return errors.Is(err, ErrLedgerInconsistency)
}
