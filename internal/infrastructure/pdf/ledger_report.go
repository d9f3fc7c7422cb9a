// Package pdf genera el reporte de auditoría del libro mayor de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + SKU       │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EXISTENCIAS: Bodega | Ubicación | Existencia | Reser. | Libre│
//	│  ─────────────────────────────────────────────────────────  │
//	│  LIBRO MAYOR: Fecha | Tipo | Bodega/Ubic. | Cant. | Ref.     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: totales y estado de conciliación                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-master/internal/application/inventory"
	"github.com/jhoicas/stock-master/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-master/internal/domain/inventory"
)

var _ inventory.ReportGenerator = (*LedgerReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// LedgerReportGenerator implementa inventory.ReportGenerator usando Maroto v2.
type LedgerReportGenerator struct {
	now func() time.Time
}

// NewLedgerReportGenerator construye el generador.
func NewLedgerReportGenerator() *LedgerReportGenerator {
	return &LedgerReportGenerator{now: time.Now}
}

// GenerateLedgerReport genera el PDF y devuelve sus bytes.
func (g *LedgerReportGenerator) GenerateLedgerReport(_ context.Context, data inventory.LedgerReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Libro mayor de stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("EXISTENCIAS"))
	m.AddRows(stockHeaderRow())
	m.AddRows(stockRows(data.Stock)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("LIBRO MAYOR"))
	m.AddRows(ledgerHeaderRow())
	m.AddRows(ledgerRows(data.Entries)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(product *entity.Product, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+nonEmpty(product.SKU, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("REPORTE DE AUDITORÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func stockHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Bodega", 3, align.Left),
		headerCol("Ubicación", 3, align.Left),
		headerCol("Existencia", 2, align.Right),
		headerCol("Reservado", 2, align.Right),
		headerCol("Libre", 2, align.Right),
	)
}

func stockRows(stock []entity.StockRecord) []core.Row {
	if len(stock) == 0 {
		return []core.Row{row.New(6).Add(cell("Sin existencias registradas", 12, align.Left))}
	}
	out := make([]core.Row, 0, len(stock))
	for _, s := range stock {
		out = append(out, row.New(6).Add(
			cell(s.WarehouseID, 3, align.Left),
			cell(nonEmpty(s.LocationID, "(por defecto)"), 3, align.Left),
			cell(formatQty(s.OnHand), 2, align.Right),
			cell(formatQty(s.Reserved), 2, align.Right),
			cell(formatQty(s.FreeToUse), 2, align.Right),
		))
	}
	return out
}

func ledgerHeaderRow() core.Row {
	return row.New(6).Add(
		headerCol("Fecha", 3, align.Left),
		headerCol("Tipo", 2, align.Left),
		headerCol("Bodega / Ubicación", 3, align.Left),
		headerCol("Cantidad", 2, align.Right),
		headerCol("Referencia", 2, align.Left),
	)
}

func ledgerRows(entries []entity.LedgerEntry) []core.Row {
	if len(entries) == 0 {
		return []core.Row{row.New(6).Add(cell("Sin movimientos", 12, align.Left))}
	}
	out := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		where := e.WarehouseID
		if e.LocationID != "" {
			where += " / " + e.LocationID
		}
		out = append(out, row.New(6).Add(
			cell(e.Timestamp.Format("02/01/2006 15:04"), 3, align.Left),
			cell(e.TransactionType, 2, align.Left),
			cell(where, 3, align.Left),
			cell(formatQty(e.QuantityChanged), 2, align.Right),
			cell(nonEmpty(e.Reference, "—"), 2, align.Left),
		))
	}
	return out
}

// footerRow totales y si el stock materializado cuadra con el libro mostrado.
func footerRow(data inventory.LedgerReportData) core.Row {
	onHand := totalOnHand(data.Stock)
	status, color := footerStatus(onHand, data.Entries, data.Truncated)
	return row.New(14).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Existencia total: %s   |   Movimientos listados: %d",
			formatQty(onHand), len(data.Entries)), props.Text{Size: 8, Top: 1, Color: colorGray}),
		text.New(status, props.Text{Style: fontstyle.Bold, Size: 8, Top: 7, Color: color}),
	))
}

// footerStatus con el libro truncado la conciliación no es concluyente.
func footerStatus(onHand int64, entries []entity.LedgerEntry, truncated bool) (string, *props.Color) {
	if truncated {
		return fmt.Sprintf("Libro truncado: solo se listan los primeros %d movimientos; conciliación no concluyente",
			len(entries)), colorAlert
	}
	if domaininv.Replay(entries).OnHand != onHand {
		return "Diferencia entre libro y existencias", colorAlert
	}
	return "Libro y existencias coinciden", colorPrimary
}

func totalOnHand(stock []entity.StockRecord) int64 {
	var n int64
	for _, s := range stock {
		n += s.OnHand
	}
	return n
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles. Ej: -25000 → "-25.000".
func formatQty(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
