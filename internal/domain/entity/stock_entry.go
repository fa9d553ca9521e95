package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de Stock Entry.
const (
	StockEntryTypeManufacture     = "Manufacture"
	StockEntryTypeMaterialIssue   = "Material Issue"
	StockEntryTypeMaterialReceipt = "Material Receipt"
)

// Estados del documento (docstatus).
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
)

// DoctypeStockEntry se usa como voucher_type en el libro de stock.
const DoctypeStockEntry = "Stock Entry"

// StockEntry documento transaccional de movimiento de inventario.
type StockEntry struct {
	ID             string
	Name           string // serie MAT-STE-YYYY-#####
	CompanyID      string
	StockEntryType string
	PostingDate    time.Time
	PostingTime    string // HH:MM:SS
	SetPostingTime bool
	FromBOM        bool
	DocStatus      int
	IsTinted       bool // custom_is_tinted
	// LinkedProductionEntry apunta al Manufacture que originó esta entrada (custom_linked_production_entry).
	LinkedProductionEntry string
	Items                 []*StockEntryDetail
	TintingItems          []*TintingItem  // custom_tinting_items
	FillingDetails        []*FillingDetail // custom_filling_details
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// StockEntryDetail línea de la tabla principal de ítems.
type StockEntryDetail struct {
	ID               string
	Idx              int
	ItemCode         string
	Qty              decimal.Decimal
	UOM              string
	ConversionFactor decimal.Decimal
	SWarehouse       string // bodega origen
	TWarehouse       string // bodega destino
	BatchNo          string
	BasicRate        decimal.Decimal // costo unitario de entrada (opcional)
	IsFinishedItem   bool
}

// TintingItem fila de la tabla de tinturado. Las filas sin FinalProduct son ingredientes;
// una fila con FinalProduct cierra el grupo de ingredientes anterior.
type TintingItem struct {
	ID              string
	Idx             int
	TintItem        string
	TintQty         decimal.Decimal
	FinalProduct    string
	FinalQty        decimal.Decimal
	ProducedQty     decimal.Decimal
	SourceWarehouse string
	TargetWarehouse string
}

// IsFinalProduct indica si la fila marca el producto final de un grupo. Un valor solo con
// espacios cuenta como ingrediente.
func (t *TintingItem) IsFinalProduct() bool {
	return strings.TrimSpace(t.FinalProduct) != ""
}

// FillingDetail fila de llenado: reempaca un bulk tinturado en SKUs.
type FillingDetail struct {
	ID              string
	Idx             int
	BulkItem        string
	FilledItem      string
	Filled          decimal.Decimal // unidades empacadas
	TotalQty        decimal.Decimal // bulk consumido
	TargetWarehouse string
}

// IsBlank indica una fila de llenado sin diligenciar.
func (f *FillingDetail) IsBlank() bool {
	return f.FilledItem == "" && f.Filled.IsZero() && f.TotalQty.IsZero()
}

// IsManufacture indica si el documento es de tipo Manufacture.
func (e *StockEntry) IsManufacture() bool {
	return e.StockEntryType == StockEntryTypeManufacture
}

// IsTintedManufacture aplica a las reglas de tinturado/llenado.
func (e *StockEntry) IsTintedManufacture() bool {
	return e.IsManufacture() && e.IsTinted
}

// FinishedItem devuelve la primera línea marcada como producto terminado, o nil.
func (e *StockEntry) FinishedItem() *StockEntryDetail {
	for _, d := range e.Items {
		if d.IsFinishedItem {
			return d
		}
	}
	return nil
}

// AppendItem agrega una línea y asigna Idx.
func (e *StockEntry) AppendItem(d *StockEntryDetail) *StockEntryDetail {
	d.Idx = len(e.Items) + 1
	e.Items = append(e.Items, d)
	return d
}

// AppendFilling agrega una fila de llenado y asigna Idx.
func (e *StockEntry) AppendFilling(f *FillingDetail) *FillingDetail {
	f.Idx = len(e.FillingDetails) + 1
	e.FillingDetails = append(e.FillingDetails, f)
	return f
}

// PostingDateTime combina fecha y hora de contabilización.
func (e *StockEntry) PostingDateTime() time.Time {
	return CombinePosting(e.PostingDate, e.PostingTime)
}

// CombinePosting une una fecha con una hora HH:MM[:SS]; hora inválida o vacía = 00:00:00.
func CombinePosting(date time.Time, hhmmss string) time.Time {
	y, m, d := date.Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	t, ok := ParsePostingTime(hhmmss)
	if !ok {
		return base
	}
	return base.Add(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second)
}

// ParsePostingTime acepta HH:MM:SS o HH:MM.
func ParsePostingTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
