package stock_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/reconciliation"
)

func (f *fixture) receiveBatches(t *testing.T) {
	t.Helper()
	f.receive(t,
		&entity.StockEntryDetail{ItemCode: "PINT", Qty: qty(5), TWarehouse: "WIP", BatchNo: "L1", BasicRate: qty(10)},
		&entity.StockEntryDetail{ItemCode: "PINT", Qty: qty(3), TWarehouse: "WIP", BatchNo: "L2", BasicRate: qty(10)},
	)
}

func TestReconciliation_CompletaLotesFaltantes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.receiveBatches(t)

	reco := &entity.StockReconciliation{PostingDate: f.day, PostingTime: "18:00:00"}
	reco.AppendItem(&entity.StockReconciliationItem{ItemCode: "PINT", Warehouse: "WIP", BatchNo: "L1", Qty: qty(4), ValuationRate: qty(12)})

	saved, err := f.recos.Save(ctx, company, "u1", reco)
	require.NoError(t, err)
	assert.Equal(t, []string{reconciliation.FilledMessage}, saved.Messages)
	assert.Equal(t, fmt.Sprintf("MAT-RECO-%d-00001", f.day.Year()), saved.Reconciliation.Name)

	items := saved.Reconciliation.Items
	require.Len(t, items, 2)
	assert.True(t, items[0].Amount.Equal(qty(48)))
	assert.Equal(t, "L2", items[1].BatchNo)
	assert.True(t, items[1].Qty.IsZero())
	assert.True(t, items[1].ValuationRate.Equal(qty(10)))
	assert.True(t, items[1].Amount.IsZero())
	assert.Equal(t, 2, items[1].Idx)
	assert.Equal(t, 1, f.rec.autofill)

	// Guardar de nuevo no duplica el lote agregado.
	saved, err = f.recos.Save(ctx, company, "u1", saved.Reconciliation)
	require.NoError(t, err)
	assert.Len(t, saved.Reconciliation.Items, 2)

	_, err = f.recos.Submit(ctx, company, "u1", saved.Reconciliation.ID)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "PINT", "WIP").Equal(qty(4)))

	batches, err := f.query.Batches(ctx, company, "WIP", f.day)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.True(t, batches[0].Qty.Equal(qty(4)))
	assert.True(t, batches[1].Qty.IsZero())
}

func TestReconciliation_SinLotesConSaldoSoloMensaje(t *testing.T) {
	f := newFixture(t, nil)
	reco := &entity.StockReconciliation{PostingDate: f.day}
	reco.AppendItem(&entity.StockReconciliationItem{ItemCode: "RESINA", Warehouse: "Stores", Qty: qty(7), ValuationRate: qty(2)})

	saved, err := f.recos.Save(context.Background(), company, "u1", reco)
	require.NoError(t, err)
	assert.Len(t, saved.Reconciliation.Items, 1)
	assert.Equal(t, []string{reconciliation.FilledMessage}, saved.Messages)

	_, err = f.recos.Submit(context.Background(), company, "u1", saved.Reconciliation.ID)
	require.NoError(t, err)
	assert.True(t, f.balance(t, "RESINA", "Stores").Equal(qty(7)))
}

func TestReconciliation_FilaDuplicada(t *testing.T) {
	f := newFixture(t, nil)
	reco := &entity.StockReconciliation{PostingDate: f.day}
	reco.AppendItem(&entity.StockReconciliationItem{ItemCode: "PINT", Warehouse: "WIP", BatchNo: "L1", Qty: qty(1)})
	reco.AppendItem(&entity.StockReconciliationItem{ItemCode: "PINT", Warehouse: "WIP", BatchNo: "L1", Qty: qty(2)})

	_, err := f.recos.Save(context.Background(), company, "u1", reco)
	requireValidation(t, err, "Row #2: Same item, warehouse and batch already entered in row #1")
}

func TestReconciliation_ConfirmadoNoEditable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	reco := &entity.StockReconciliation{PostingDate: f.day}
	reco.AppendItem(&entity.StockReconciliationItem{ItemCode: "RESINA", Warehouse: "Stores", Qty: qty(1)})
	saved, err := f.recos.Save(ctx, company, "u1", reco)
	require.NoError(t, err)
	_, err = f.recos.Submit(ctx, company, "u1", saved.Reconciliation.ID)
	require.NoError(t, err)

	_, err = f.recos.Submit(ctx, company, "u1", saved.Reconciliation.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.recos.Get(ctx, "otra", saved.Reconciliation.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconciliation_Import(t *testing.T) {
	f := newFixture(t, fakeParser{rows: []*entity.StockReconciliationItem{
		{ItemCode: "PINT", Warehouse: "WIP", BatchNo: "L2", Qty: qty(3), ValuationRate: qty(10)},
	}})
	f.receiveBatches(t)

	res, err := f.recos.Import(context.Background(), company, "u1", f.day, "", strings.NewReader("xlsx"))
	require.NoError(t, err)
	require.Len(t, res.Reconciliation.Items, 2)
	assert.Equal(t, "L1", res.Reconciliation.Items[1].BatchNo)
	assert.True(t, res.Reconciliation.Items[1].Qty.IsZero())
	assert.Equal(t, entity.DocStatusDraft, res.Reconciliation.DocStatus)
}

func TestReconciliation_ImportSinParser(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.recos.Import(context.Background(), company, "u1", f.day, "", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
