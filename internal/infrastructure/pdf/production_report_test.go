package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/manufactura-api/internal/domain/entity"
)

func TestGenerateProductionReport(t *testing.T) {
	e := &entity.StockEntry{
		Name:           "MAT-STE-2026-00002",
		StockEntryType: entity.StockEntryTypeManufacture,
		PostingDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		PostingTime:    "08:00:00",
		DocStatus:      entity.DocStatusSubmitted,
		IsTinted:       true,
	}
	e.AppendItem(&entity.StockEntryDetail{ItemCode: "BASE", Qty: decimal.NewFromInt(20), UOM: "L", TWarehouse: "WIP", IsFinishedItem: true})
	e.TintingItems = []*entity.TintingItem{
		{TintItem: "TINTE-AZ", TintQty: decimal.NewFromInt(2), SourceWarehouse: "Stores"},
		{FinalProduct: "AZUL-BULK", FinalQty: decimal.NewFromInt(12), ProducedQty: decimal.NewFromInt(10)},
	}
	e.AppendFilling(&entity.FillingDetail{BulkItem: "AZUL-BULK", FilledItem: "AZUL-1GL", Filled: decimal.NewFromInt(3), TotalQty: decimal.NewFromInt(12)})

	linked := &entity.StockEntry{Name: "MAT-STE-2026-00003", StockEntryType: entity.StockEntryTypeMaterialIssue}
	linked.AppendItem(&entity.StockEntryDetail{ItemCode: "TINTE-AZ", Qty: decimal.NewFromInt(2), SWarehouse: "Stores"})

	out, err := NewMarotoReportGenerator().GenerateProductionReport(context.Background(), e, []*entity.StockEntry{linked})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
