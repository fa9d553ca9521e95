// Package excel lee hojas .xlsx de carga masiva (Data Import).
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

// Columnas reconocidas en la fila de encabezado (sin importar mayúsculas ni orden).
const (
	ColItemCode      = "item_code"
	ColWarehouse     = "warehouse"
	ColBatchNo       = "batch_no"
	ColQty           = "qty"
	ColValuationRate = "valuation_rate"
)

// ReconciliationSheetParser implementa stock.ReconciliationSheetParser con excelize.
type ReconciliationSheetParser struct{}

// NewReconciliationSheetParser construye el parser.
func NewReconciliationSheetParser() *ReconciliationSheetParser {
	return &ReconciliationSheetParser{}
}

// ParseReconciliation lee la primera hoja. La primera fila es el encabezado; item_code,
// warehouse y qty son obligatorias. Las filas vacías se ignoran.
func (p *ReconciliationSheetParser) ParseReconciliation(r io.Reader) ([]*entity.StockReconciliationItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.Throw("Invalid spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.Throw("The spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("excel: leer hoja %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, domain.Throw("The spreadsheet has no data rows")
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{ColItemCode, ColWarehouse, ColQty} {
		if _, ok := cols[required]; !ok {
			return nil, domain.Throw("Missing column %s", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []*entity.StockReconciliationItem
	for n, row := range rows[1:] {
		sheetRow := n + 2
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		qty, err := parseDecimal(cell(row, ColQty))
		if err != nil {
			return nil, domain.Throw("Row %d: invalid qty %q", sheetRow, cell(row, ColQty))
		}
		rate, err := parseDecimal(cell(row, ColValuationRate))
		if err != nil {
			return nil, domain.Throw("Row %d: invalid valuation_rate %q", sheetRow, cell(row, ColValuationRate))
		}
		items = append(items, &entity.StockReconciliationItem{
			ItemCode:      cell(row, ColItemCode),
			Warehouse:     cell(row, ColWarehouse),
			BatchNo:       cell(row, ColBatchNo),
			Qty:           qty,
			ValuationRate: rate,
		})
	}
	if len(items) == 0 {
		return nil, domain.Throw("The spreadsheet has no data rows")
	}
	return items, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}
