package manufacturing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/manufacturing"
)

func q(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// tintedEntry arma un Manufacture tinturado con base blanca de 100 en WH-BULK.
func tintedEntry() *entity.StockEntry {
	e := &entity.StockEntry{
		StockEntryType: entity.StockEntryTypeManufacture,
		IsTinted:       true,
	}
	e.AppendItem(&entity.StockEntryDetail{ItemCode: "RESINA", Qty: q("120"), SWarehouse: "WH-RM"})
	e.AppendItem(&entity.StockEntryDetail{ItemCode: "BASE-BLANCA", Qty: q("100"), TWarehouse: "WH-BULK", IsFinishedItem: true})
	return e
}

func TestValidateProducedQty_DentroDelLimite(t *testing.T) {
	e := tintedEntry()
	e.TintingItems = []*entity.TintingItem{
		{Idx: 1, TintItem: "TINTE-AZUL", TintQty: q("2")},
		{Idx: 2, FinalProduct: "BULK-AZUL", ProducedQty: q("60")},
		{Idx: 3, FinalProduct: "BULK-ROJO", ProducedQty: q("40")},
	}
	assert.NoError(t, manufacturing.ValidateProducedQty(e))
}

func TestValidateProducedQty_ExcedeProductoTerminado(t *testing.T) {
	e := tintedEntry()
	e.TintingItems = []*entity.TintingItem{
		{Idx: 1, FinalProduct: "BULK-AZUL", ProducedQty: q("60.5")},
		{Idx: 2, FinalProduct: "BULK-ROJO", ProducedQty: q("40")},
		// sin producto final: no suma
		{Idx: 3, TintItem: "TINTE-ROJO", TintQty: q("1"), ProducedQty: q("500")},
	}
	err := manufacturing.ValidateProducedQty(e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t,
		"Total Produced Qty (100.5) cannot exceed the Finished Item Qty (100) in the main Stock Entry Items.",
		err.Error())
}

func TestValidateProducedQty_SinProductoTerminadoEsCero(t *testing.T) {
	e := &entity.StockEntry{StockEntryType: entity.StockEntryTypeManufacture, IsTinted: true}
	e.TintingItems = []*entity.TintingItem{{Idx: 1, FinalProduct: "BULK-AZUL", ProducedQty: q("1")}}
	err := manufacturing.ValidateProducedQty(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Finished Item Qty (0)")
}

func TestSyncTintingToFilling_AgregaSoloFaltantes(t *testing.T) {
	e := tintedEntry()
	e.TintingItems = []*entity.TintingItem{
		{Idx: 1, TintItem: "TINTE-AZUL", TintQty: q("2"), SourceWarehouse: "WH-TINT"},
		{Idx: 2, FinalProduct: "BULK-AZUL", TargetWarehouse: "WH-FILL"},
		{Idx: 3, FinalProduct: "BULK-ROJO", TargetWarehouse: "WH-FILL-2"},
		{Idx: 4, FinalProduct: "BULK-ROJO", TargetWarehouse: "WH-OTRA"},
	}
	e.AppendFilling(&entity.FillingDetail{BulkItem: "BULK-AZUL", FilledItem: "GALON-AZUL"})

	added := manufacturing.SyncTintingToFilling(e)

	assert.Equal(t, 1, added)
	require.Len(t, e.FillingDetails, 2)
	assert.Equal(t, "BULK-ROJO", e.FillingDetails[1].BulkItem)
	assert.Equal(t, "WH-FILL-2", e.FillingDetails[1].TargetWarehouse)
	assert.Equal(t, 2, e.FillingDetails[1].Idx)

	assert.Zero(t, manufacturing.SyncTintingToFilling(e), "segunda pasada no agrega filas")
}

func TestValidateFillingVsTinting(t *testing.T) {
	cases := []struct {
		name    string
		filling []*entity.FillingDetail
		wantErr string
	}{
		{
			name: "coincide sumando filas",
			filling: []*entity.FillingDetail{
				{BulkItem: "BULK-AZUL", TotalQty: q("30")},
				{BulkItem: "BULK-AZUL", TotalQty: q("29.9996")},
			},
		},
		{
			name:    "falta llenado",
			filling: []*entity.FillingDetail{{BulkItem: "BULK-AZUL", TotalQty: q("50")}},
			wantErr: "Filling for BULK-AZUL does not match Tinting Final Qty. Tinted: 60, Filled: 50",
		},
		{
			name:    "sin filas de llenado",
			wantErr: "Filling for BULK-AZUL does not match Tinting Final Qty. Tinted: 60, Filled: 0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := tintedEntry()
			e.TintingItems = []*entity.TintingItem{
				{Idx: 1, FinalProduct: "BULK-AZUL", FinalQty: q("60")},
				// final_qty cero: no se compara
				{Idx: 2, FinalProduct: "BULK-ROJO"},
			}
			e.FillingDetails = tc.filling
			err := manufacturing.ValidateFillingVsTinting(e)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func TestValidateTintingRows(t *testing.T) {
	e := tintedEntry()
	e.TintingItems = []*entity.TintingItem{{Idx: 1, TintItem: "TINTE-AZUL", TintQty: q("0"), SourceWarehouse: "WH-TINT"}}
	err := manufacturing.ValidateTintingRows(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tint Qty must be greater than zero")

	e.TintingItems[0].TintQty = q("1")
	assert.NoError(t, manufacturing.ValidateTintingRows(e))

	e.TintingItems = append(e.TintingItems, &entity.TintingItem{Idx: 2, FinalProduct: "BULK", FinalQty: q("-1")})
	assert.Error(t, manufacturing.ValidateTintingRows(e))
}

func TestValidateFillingRows_IgnoraFilasEnBlanco(t *testing.T) {
	e := tintedEntry()
	e.TintingItems = []*entity.TintingItem{{Idx: 1, FinalProduct: "BULK-AZUL"}}
	e.AppendFilling(&entity.FillingDetail{BulkItem: "BULK-AZUL", TargetWarehouse: "WH-FILL"})
	assert.NoError(t, manufacturing.ValidateFillingRows(e))

	e.FillingDetails[0].TotalQty = q("10")
	err := manufacturing.ValidateFillingRows(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Filled Item is required")
}

func TestProductoFinalEnBlancoEsIngrediente(t *testing.T) {
	e := tintedEntry()
	e.TintingItems = []*entity.TintingItem{
		{Idx: 1, FinalProduct: "  ", TintItem: "TINTE-AZUL", TintQty: q("2"), ProducedQty: q("500")},
		{Idx: 2, FinalProduct: "BULK-AZUL", FinalQty: q("30"), ProducedQty: q("100")},
	}

	assert.NoError(t, manufacturing.ValidateProducedQty(e))
	assert.Equal(t, 1, manufacturing.SyncTintingToFilling(e))
	require.Len(t, e.FillingDetails, 1)
	assert.Equal(t, "BULK-AZUL", e.FillingDetails[0].BulkItem)
}

func TestSyncTintingToFilling_ProductoRepetidoUnaFila(t *testing.T) {
	e := tintedEntry()
	e.TintingItems = []*entity.TintingItem{
		{Idx: 1, FinalProduct: "BULK-AZUL", TargetWarehouse: "WH-BULK"},
		{Idx: 2, FinalProduct: "BULK-AZUL", TargetWarehouse: "WH-FILL"},
	}
	assert.Equal(t, 1, manufacturing.SyncTintingToFilling(e))
	require.Len(t, e.FillingDetails, 1)
	assert.Equal(t, "WH-BULK", e.FillingDetails[0].TargetWarehouse)
}
