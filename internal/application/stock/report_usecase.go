package stock

import (
	"context"
	"fmt"

	"github.com/jhoicas/manufactura-api/internal/domain"
)

// ReportUseCase reporte de producción de un Stock Entry.
type ReportUseCase struct {
	entries *StockEntryUseCase
	gen     ProductionReportGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(entries *StockEntryUseCase, gen ProductionReportGenerator) *ReportUseCase {
	return &ReportUseCase{entries: entries, gen: gen}
}

// ProductionReport devuelve el nombre y el PDF de un Manufacture con las entradas que generó.
func (uc *ReportUseCase) ProductionReport(ctx context.Context, companyID, id string) (name string, pdf []byte, err error) {
	e, err := uc.entries.Get(ctx, companyID, id)
	if err != nil {
		return "", nil, err
	}
	if !e.IsManufacture() {
		return "", nil, fmt.Errorf("reporte solo para Manufacture: %w", domain.ErrInvalidInput)
	}
	linked, err := uc.entries.ListLinked(ctx, companyID, id)
	if err != nil {
		return "", nil, err
	}
	pdf, err = uc.gen.GenerateProductionReport(ctx, e, linked)
	if err != nil {
		return "", nil, err
	}
	return e.Name, pdf, nil
}
