package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClasificacionDeErrores(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("update stock: %w", &pgconn.PgError{Code: code})
	}

	tests := []struct {
		name      string
		err       error
		unique    bool
		check     bool
		retryable bool
		reason    string
	}{
		{"unique", wrap("23505"), true, false, false, "other"},
		{"check", wrap("23514"), false, true, false, "other"},
		{"serialización", wrap("40001"), false, false, true, "serialization_failure"},
		{"deadlock", wrap("40P01"), false, false, true, "deadlock_detected"},
		{"no postgres", errors.New("timeout"), false, false, false, "other"},
		{"texto con 23505", errors.New("ERROR: duplicate key (SQLSTATE 23505)"), true, false, false, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.check, isCheckViolation(tt.err))
			assert.Equal(t, tt.retryable, isRetryable(tt.err))
			assert.Equal(t, tt.reason, retryReason(tt.err))
		})
	}
}

func TestIsInvalidText(t *testing.T) {
	assert.True(t, isInvalidText(fmt.Errorf("get: %w", &pgconn.PgError{Code: "22P02"})))
	assert.False(t, isInvalidText(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isInvalidText(nil))
}
