// Package pdf genera el reporte de producción de un Stock Entry tipo Manufacture.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: N° documento + tipo    │  Fecha/hora + estado       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÍTEMS: Ítem | Cant | UdM | Origen | Destino                 │
//	│  TINTURADO: Tinte | Cant | Producto final | Final | Producido│
//	│  LLENADO: Bulk | SKU | Llenado | Total                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ENTRADAS GENERADAS: N° | Tipo | Ítem | Cant | Bodega        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReportGenerator implementa stock.ProductionReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateProductionReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateProductionReport(_ context.Context, e *entity.StockEntry, linked []*entity.StockEntry) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de producción "+e.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(e))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("ÍTEMS"))
	m.AddRows(tableHeader([]string{"Ítem", "Cant.", "UdM", "Origen", "Destino"}, []int{4, 2, 2, 2, 2}))
	for _, d := range e.Items {
		item := d.ItemCode
		if d.IsFinishedItem {
			item += " (terminado)"
		}
		m.AddRows(tableRow([]string{item, d.Qty.String(), d.UOM, dash(d.SWarehouse), dash(d.TWarehouse)}, []int{4, 2, 2, 2, 2}))
	}

	if len(e.TintingItems) > 0 {
		m.AddRows(sectionRow("TINTURADO"))
		m.AddRows(tableHeader([]string{"Tinte", "Cant.", "Producto final", "Final", "Producido", "Origen"}, []int{3, 1, 3, 1, 2, 2}))
		for _, t := range e.TintingItems {
			m.AddRows(tableRow([]string{
				dash(t.TintItem), t.TintQty.String(), dash(t.FinalProduct),
				t.FinalQty.String(), t.ProducedQty.String(), dash(t.SourceWarehouse),
			}, []int{3, 1, 3, 1, 2, 2}))
		}
	}

	if len(e.FillingDetails) > 0 {
		m.AddRows(sectionRow("LLENADO"))
		m.AddRows(tableHeader([]string{"Bulk", "SKU", "Llenado", "Total bulk", "Bodega"}, []int{3, 3, 2, 2, 2}))
		for _, f := range e.FillingDetails {
			m.AddRows(tableRow([]string{
				f.BulkItem, dash(f.FilledItem), f.Filled.String(), f.TotalQty.String(), dash(f.TargetWarehouse),
			}, []int{3, 3, 2, 2, 2}))
		}
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionRow(fmt.Sprintf("ENTRADAS GENERADAS (%d)", len(linked))))
	if len(linked) > 0 {
		m.AddRows(tableHeader([]string{"Documento", "Tipo", "Ítem", "Cant.", "Bodega"}, []int{3, 3, 2, 2, 2}))
		for _, le := range linked {
			for _, d := range le.Items {
				m.AddRows(tableRow([]string{
					le.Name, le.StockEntryType, d.ItemCode, d.Qty.String(), firstNonEmpty(d.SWarehouse, d.TWarehouse),
				}, []int{3, 3, 2, 2, 2}))
			}
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(e *entity.StockEntry) core.Row {
	status := "Borrador"
	if e.DocStatus == entity.DocStatusSubmitted {
		status = "Confirmado"
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(e.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(e.StockEntryType, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(e.PostingDate.Format("02/01/2006")+" "+e.PostingTime, props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New(status, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 9, Color: colorGray}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3}),
	))
}

func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1}))
	}
	return row.New(6).Add(cols...)
}

func tableRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, len(values))
	for i, v := range values {
		cols[i] = col.New(sizes[i]).Add(text.New(v, props.Text{Size: 8, Top: 1, Left: 1}))
	}
	return row.New(5).Add(cols...)
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "—"
}
