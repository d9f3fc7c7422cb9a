package inventory

// SetReportLimit reduce el límite del reporte en pruebas.
func (q *LedgerQuery) SetReportLimit(n int) { q.reportLimit = n }
