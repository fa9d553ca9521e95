package stock

import (
	"context"
	"io"

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el guardado o la confirmación de un documento (con sus hooks y documentos generados)
// sea atómico.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// Recorder métricas de negocio de documentos confirmados.
type Recorder interface {
	DocumentSubmitted(doctype, stockEntryType string)
}

// ReconciliationSheetParser lee las filas de conteo desde una hoja de cálculo (Data Import).
type ReconciliationSheetParser interface {
	ParseReconciliation(r io.Reader) ([]*entity.StockReconciliationItem, error)
}

// ProductionReportGenerator genera el reporte PDF de un Manufacture con sus entradas ligadas.
type ProductionReportGenerator interface {
	GenerateProductionReport(ctx context.Context, entry *entity.StockEntry, linked []*entity.StockEntry) ([]byte, error)
}
