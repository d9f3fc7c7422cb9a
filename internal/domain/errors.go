package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrAlreadyCompleted no es un fallo para el caller: la operación ya se aplicó antes.
	ErrAlreadyCompleted = errors.New("operación ya completada")

	// ErrConflict es transitorio: conflicto de concurrencia tras agotar reintentos.
	ErrConflict = errors.New("conflicto con el estado actual, reintente")

	// ErrPartialTransfer indica que no se pudo confirmar el resultado de un traslado.
	// Debe alertarse; nunca se enmascara como éxito.
	ErrPartialTransfer = errors.New("traslado en estado inconsistente")
)
