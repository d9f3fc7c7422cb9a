package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-master/internal/domain/entity"
	"github.com/jhoicas/stock-master/internal/domain/repository"
)

// ErrCommitUncertain lo devuelve un TxRunner cuando COMMIT falló sin que se sepa si se aplicó
// (p. ej. conexión perdida durante el commit). Quien llama debe reconciliar leyendo el estado.
var ErrCommitUncertain = errors.New("resultado del commit desconocido")

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de stock: si fn retorna error no queda nada aplicado.
// Los conflictos de concurrencia se reintentan dentro de Run; fn puede ejecutarse más de una vez.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
		transferRepo repository.TransferRepository,
	) error) error
}

// EventPublisher publica entradas del libro mayor ya confirmadas (best effort, después del commit).
type EventPublisher interface {
	PublishLedgerEntries(ctx context.Context, entries []entity.LedgerEntry) error
}

// Metrics observa el resultado de las operaciones del motor.
type Metrics interface {
	MovementApplied(transactionType string, quantity int64)
	MovementRejected(operation, reason string)
	TransferCompleted()
	PartialTransfer()
}

// LedgerReportData contenido del reporte de auditoría de un producto.
// Truncated indica que el producto tiene más movimientos que los incluidos en Entries.
type LedgerReportData struct {
	Product   *entity.Product
	Stock     []entity.StockRecord
	Entries   []entity.LedgerEntry
	Truncated bool
}

// ReportGenerator genera el reporte de auditoría del libro mayor.
type ReportGenerator interface {
	GenerateLedgerReport(ctx context.Context, data LedgerReportData) ([]byte, error)
}

type nopPublisher struct{}

func (nopPublisher) PublishLedgerEntries(context.Context, []entity.LedgerEntry) error { return nil }

type nopMetrics struct{}

func (nopMetrics) MovementApplied(string, int64)    {}
func (nopMetrics) MovementRejected(string, string) {}
func (nopMetrics) TransferCompleted()              {}
func (nopMetrics) PartialTransfer()                {}
