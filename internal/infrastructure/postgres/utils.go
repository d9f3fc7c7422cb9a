package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el motor distingue.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeInvalidText          = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == codeUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), codeUniqueViolation)
}

// isCheckViolation la fila violaría un CHECK (p. ej. stock negativo).
func isCheckViolation(err error) bool {
	return pgCode(err) == codeCheckViolation
}

// isInvalidText el valor no se pudo convertir al tipo de la columna (p. ej. un id que no es UUID).
func isInvalidText(err error) bool {
	return pgCode(err) == codeInvalidText
}

// isRetryable conflicto de concurrencia: la tx se abortó entera y puede repetirse.
func isRetryable(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// retryReason etiqueta corta para logs y métricas de reintentos.
func retryReason(err error) string {
	switch pgCode(err) {
	case codeSerializationFailure:
		return "serialization_failure"
	case codeDeadlockDetected:
		return "deadlock_detected"
	}
	return "other"
}
