package stock_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/manufactura-api/internal/application/hooks"
	appmanufacturing "github.com/jhoicas/manufactura-api/internal/application/manufacturing"
	appreconciliation "github.com/jhoicas/manufactura-api/internal/application/reconciliation"
	"github.com/jhoicas/manufactura-api/internal/application/stock"
	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
	"github.com/jhoicas/manufactura-api/internal/infrastructure/memory"
)

const company = "c1"

type fixture struct {
	store   *memory.Store
	entries *stock.StockEntryUseCase
	recos   *stock.ReconciliationUseCase
	query   *stock.QueryUseCase
	rec     *fakeRecorder
	day     time.Time
}

type fakeRecorder struct {
	submitted map[string]int
	generated map[string]int
	autofill  int
}

func (f *fakeRecorder) DocumentSubmitted(doctype, stockEntryType string) {
	f.submitted[doctype+"/"+stockEntryType]++
}
func (f *fakeRecorder) EntryGenerated(purpose string) { f.generated[purpose]++ }
func (f *fakeRecorder) BatchesAutofilled(n int)       { f.autofill += n }

type fakeParser struct {
	rows []*entity.StockReconciliationItem
	err  error
}

func (p fakeParser) ParseReconciliation(_ io.Reader) ([]*entity.StockReconciliationItem, error) {
	return p.rows, p.err
}

func newFixture(t *testing.T, parser stock.ReconciliationSheetParser) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	rec := &fakeRecorder{submitted: map[string]int{}, generated: map[string]int{}}

	entryHooks := hooks.NewRegistry[*entity.StockEntry](entity.DoctypeStockEntry)
	appmanufacturing.Register(entryHooks, rec)
	recoHooks := hooks.NewRegistry[*entity.StockReconciliation](entity.DoctypeStockReconciliation)
	appreconciliation.Register(recoHooks, rec)

	poster := stock.NewLedgerPoster(false)
	repos := store.Repos()

	for _, it := range []entity.Item{
		{ItemCode: "RESINA", StockUOM: "Kg"},
		{ItemCode: "TINTE-AZ", StockUOM: "Kg"},
		{ItemCode: "BASE", StockUOM: "L"},
		{ItemCode: "AZUL-BULK", StockUOM: "L"},
		{ItemCode: "AZUL-1GL", StockUOM: "Nos"},
		{ItemCode: "PINT", StockUOM: "L", HasBatchNo: true},
	} {
		it := it
		it.CompanyID = company
		require.NoError(t, repos.Items.Create(ctx, &it))
	}
	for _, wh := range []string{"Stores", "WIP", "FG"} {
		require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: wh, CompanyID: company, Name: wh}))
	}

	y, m, d := time.Now().UTC().AddDate(0, 0, -1).Date()
	return &fixture{
		store:   store,
		entries: stock.NewStockEntryUseCase(store, repos.StockEntries, entryHooks, poster, rec, zerolog.Nop()),
		recos:   stock.NewReconciliationUseCase(store, repos.Reconciliations, recoHooks, poster, parser, rec, zerolog.Nop()),
		query:   stock.NewQueryUseCase(repos.Ledger),
		rec:     rec,
		day:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *fixture) name(n int) string {
	return fmt.Sprintf("MAT-STE-%d-%05d", f.day.Year(), n)
}

func (f *fixture) receive(t *testing.T, rows ...*entity.StockEntryDetail) *entity.StockEntry {
	t.Helper()
	e := &entity.StockEntry{StockEntryType: entity.StockEntryTypeMaterialReceipt, PostingDate: f.day, PostingTime: "07:00:00"}
	for _, r := range rows {
		e.AppendItem(r)
	}
	saved, err := f.entries.Save(context.Background(), company, "u1", e)
	require.NoError(t, err)
	_, err = f.entries.Submit(context.Background(), company, "u1", saved.Entry.ID)
	require.NoError(t, err)
	return saved.Entry
}

func (f *fixture) balance(t *testing.T, item, wh string) decimal.Decimal {
	t.Helper()
	b, err := f.query.Balance(context.Background(), company, item, wh, time.Time{})
	require.NoError(t, err)
	return b.Qty
}

func (f *fixture) tintedManufacture() *entity.StockEntry {
	e := &entity.StockEntry{
		StockEntryType: entity.StockEntryTypeManufacture,
		PostingDate:    f.day,
		PostingTime:    "08:00:00",
		IsTinted:       true,
	}
	e.AppendItem(&entity.StockEntryDetail{ItemCode: "RESINA", Qty: qty(10), SWarehouse: "Stores"})
	e.AppendItem(&entity.StockEntryDetail{ItemCode: "BASE", Qty: qty(20), TWarehouse: "WIP", IsFinishedItem: true})
	e.TintingItems = []*entity.TintingItem{
		{TintItem: "TINTE-AZ", TintQty: qty(2), SourceWarehouse: "Stores"},
		{FinalProduct: "AZUL-BULK", FinalQty: qty(12), ProducedQty: qty(10), TargetWarehouse: "WIP"},
	}
	return e
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrValidation), "se esperaba ValidationError, llegó %v", err)
	got, ok := domain.UserMessage(err)
	require.True(t, ok)
	assert.Equal(t, msg, got)
}

func TestStockEntry_ManufactureTinturadoGeneraEntradas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.receive(t,
		&entity.StockEntryDetail{ItemCode: "RESINA", Qty: qty(10), TWarehouse: "Stores", BasicRate: qty(3)},
		&entity.StockEntryDetail{ItemCode: "TINTE-AZ", Qty: qty(2), TWarehouse: "Stores", BasicRate: qty(8)},
	)

	saved, err := f.entries.Save(ctx, company, "u1", f.tintedManufacture())
	require.NoError(t, err)
	mfg := saved.Entry
	assert.Equal(t, f.name(2), mfg.Name)
	require.Len(t, mfg.FillingDetails, 1)
	assert.Equal(t, "AZUL-BULK", mfg.FillingDetails[0].BulkItem)
	assert.Equal(t, "WIP", mfg.FillingDetails[0].TargetWarehouse)

	mfg.FillingDetails[0].FilledItem = "AZUL-1GL"
	mfg.FillingDetails[0].Filled = qty(3)
	mfg.FillingDetails[0].TotalQty = qty(12)
	saved, err = f.entries.Save(ctx, company, "u1", mfg)
	require.NoError(t, err)
	require.Len(t, saved.Entry.FillingDetails, 1, "no debe duplicar la fila de llenado")

	submitted, err := f.entries.Submit(ctx, company, "u1", mfg.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusSubmitted, submitted.Entry.DocStatus)

	linked, err := f.entries.ListLinked(ctx, company, mfg.ID)
	require.NoError(t, err)
	require.Len(t, linked, 4)

	type row struct {
		typ, item, s, t string
		qty             int64
	}
	want := []row{
		{entity.StockEntryTypeMaterialIssue, "TINTE-AZ", "Stores", "", 2},
		{entity.StockEntryTypeMaterialReceipt, "AZUL-BULK", "", "WIP", 12},
		{entity.StockEntryTypeMaterialIssue, "AZUL-BULK", "WIP", "", 12},
		{entity.StockEntryTypeMaterialReceipt, "AZUL-1GL", "", "WIP", 3},
	}
	for i, w := range want {
		e := linked[i]
		assert.Equal(t, w.typ, e.StockEntryType, "entrada %d", i)
		assert.Equal(t, mfg.Name, e.LinkedProductionEntry)
		assert.Equal(t, entity.DocStatusSubmitted, e.DocStatus)
		assert.True(t, e.SetPostingTime)
		assert.False(t, e.FromBOM)
		assert.Equal(t, "08:00:00", e.PostingTime)
		assert.Equal(t, w.item, e.Items[0].ItemCode)
		assert.Equal(t, w.s, e.Items[0].SWarehouse)
		assert.Equal(t, w.t, e.Items[0].TWarehouse)
		assert.True(t, e.Items[0].Qty.Equal(qty(w.qty)))
		assert.True(t, e.Items[0].ConversionFactor.Equal(qty(1)))
	}
	require.Len(t, linked[0].Items, 2)
	assert.Equal(t, "BASE", linked[0].Items[1].ItemCode)
	assert.Equal(t, "WIP", linked[0].Items[1].SWarehouse)
	assert.True(t, linked[0].Items[1].Qty.Equal(qty(10)))
	assert.Equal(t, "L", linked[0].Items[1].UOM)
	assert.Equal(t, "Nos", linked[3].Items[0].UOM)

	assert.True(t, f.balance(t, "BASE", "WIP").Equal(qty(10)))
	assert.True(t, f.balance(t, "AZUL-BULK", "WIP").IsZero())
	assert.True(t, f.balance(t, "AZUL-1GL", "WIP").Equal(qty(3)))
	assert.True(t, f.balance(t, "TINTE-AZ", "Stores").IsZero())
	assert.True(t, f.balance(t, "RESINA", "Stores").IsZero())

	assert.Equal(t, 1, f.rec.generated["consumption"])
	assert.Equal(t, 1, f.rec.generated["filling_receipt"])
	assert.Equal(t, 1, f.rec.submitted[entity.DoctypeStockEntry+"/"+entity.StockEntryTypeManufacture])
}

func TestStockEntry_LlenadoNoCoincideConTinturado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.receive(t,
		&entity.StockEntryDetail{ItemCode: "RESINA", Qty: qty(10), TWarehouse: "Stores"},
		&entity.StockEntryDetail{ItemCode: "TINTE-AZ", Qty: qty(2), TWarehouse: "Stores"},
	)

	e := f.tintedManufacture()
	e.FillingDetails = []*entity.FillingDetail{
		{BulkItem: "AZUL-BULK", FilledItem: "AZUL-1GL", Filled: qty(3), TotalQty: qty(11), TargetWarehouse: "WIP"},
	}
	saved, err := f.entries.Save(ctx, company, "u1", e)
	require.NoError(t, err)

	_, err = f.entries.Submit(ctx, company, "u1", saved.Entry.ID)
	requireValidation(t, err, "Filling for AZUL-BULK does not match Tinting Final Qty. Tinted: 12, Filled: 11")

	got, err := f.entries.Get(ctx, company, saved.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusDraft, got.DocStatus)
	assert.True(t, f.balance(t, "RESINA", "Stores").Equal(qty(10)))
}

func TestStockEntry_ProducidoExcedeTerminado(t *testing.T) {
	f := newFixture(t, nil)
	e := f.tintedManufacture()
	e.TintingItems[1].ProducedQty = qty(25)

	_, err := f.entries.Save(context.Background(), company, "u1", e)
	requireValidation(t, err, "Total Produced Qty (25) cannot exceed the Finished Item Qty (20) in the main Stock Entry Items.")
}

func TestStockEntry_StockInsuficienteHaceRollback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	// Sin TINTE-AZ en Stores: falla la primera entrada generada.
	f.receive(t, &entity.StockEntryDetail{ItemCode: "RESINA", Qty: qty(10), TWarehouse: "Stores"})

	e := f.tintedManufacture()
	e.FillingDetails = []*entity.FillingDetail{
		{BulkItem: "AZUL-BULK", FilledItem: "AZUL-1GL", Filled: qty(3), TotalQty: qty(12), TargetWarehouse: "WIP"},
	}
	saved, err := f.entries.Save(ctx, company, "u1", e)
	require.NoError(t, err)

	_, err = f.entries.Submit(ctx, company, "u1", saved.Entry.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "TINTE-AZ", se.ItemCode)
	assert.Equal(t, "Stores", se.Warehouse)

	got, err := f.entries.Get(ctx, company, saved.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusDraft, got.DocStatus)

	linked, err := f.entries.ListLinked(ctx, company, saved.Entry.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
	assert.True(t, f.balance(t, "BASE", "WIP").IsZero())
	assert.True(t, f.balance(t, "RESINA", "Stores").Equal(qty(10)))
	assert.Empty(t, f.rec.generated)
	assert.Zero(t, f.rec.submitted[entity.DoctypeStockEntry+"/"+entity.StockEntryTypeMaterialIssue])
}

func TestStockEntry_FalloTardioNoCuentaMetricas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.receive(t,
		&entity.StockEntryDetail{ItemCode: "RESINA", Qty: qty(10), TWarehouse: "Stores"},
		&entity.StockEntryDetail{ItemCode: "TINTE-AZ", Qty: qty(2), TWarehouse: "Stores"},
	)

	// El granel entra en WIP pero el llenado lo saca de FG: fallan las entradas de llenado,
	// después de confirmar el consumo y la entrada del granel.
	e := f.tintedManufacture()
	e.FillingDetails = []*entity.FillingDetail{
		{BulkItem: "AZUL-BULK", FilledItem: "AZUL-1GL", Filled: qty(3), TotalQty: qty(12), TargetWarehouse: "FG"},
	}
	saved, err := f.entries.Save(ctx, company, "u1", e)
	require.NoError(t, err)

	_, err = f.entries.Submit(ctx, company, "u1", saved.Entry.ID)
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "AZUL-BULK", se.ItemCode)
	assert.Equal(t, "FG", se.Warehouse)

	linked, err := f.entries.ListLinked(ctx, company, saved.Entry.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
	assert.True(t, f.balance(t, "AZUL-BULK", "WIP").IsZero())
	assert.Empty(t, f.rec.generated)
	assert.Zero(t, f.rec.submitted[entity.DoctypeStockEntry+"/"+entity.StockEntryTypeMaterialIssue])
	assert.Zero(t, f.rec.submitted[entity.DoctypeStockEntry+"/"+entity.StockEntryTypeManufacture])
	assert.Equal(t, 1, f.rec.submitted[entity.DoctypeStockEntry+"/"+entity.StockEntryTypeMaterialReceipt])
}

func TestStockEntry_GranelConLote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.receive(t,
		&entity.StockEntryDetail{ItemCode: "RESINA", Qty: qty(10), TWarehouse: "Stores"},
		&entity.StockEntryDetail{ItemCode: "TINTE-AZ", Qty: qty(2), TWarehouse: "Stores"},
		&entity.StockEntryDetail{ItemCode: "PINT", Qty: qty(2), TWarehouse: "WIP", BatchNo: "A0"},
	)

	e := f.tintedManufacture()
	e.TintingItems[1].FinalProduct = "PINT"
	saved, err := f.entries.Save(ctx, company, "u1", e)
	require.NoError(t, err)
	mfg := saved.Entry
	require.Len(t, mfg.FillingDetails, 1)
	assert.Equal(t, "PINT", mfg.FillingDetails[0].BulkItem)
	mfg.FillingDetails[0].FilledItem = "AZUL-1GL"
	mfg.FillingDetails[0].Filled = qty(3)
	mfg.FillingDetails[0].TotalQty = qty(12)
	_, err = f.entries.Save(ctx, company, "u1", mfg)
	require.NoError(t, err)

	_, err = f.entries.Submit(ctx, company, "u1", mfg.ID)
	require.NoError(t, err)

	linked, err := f.entries.ListLinked(ctx, company, mfg.ID)
	require.NoError(t, err)
	require.Len(t, linked, 4)

	// El granel recibido queda en el lote del Manufacture.
	bulkReceipt := linked[1]
	assert.Equal(t, entity.StockEntryTypeMaterialReceipt, bulkReceipt.StockEntryType)
	require.Len(t, bulkReceipt.Items, 1)
	assert.Equal(t, mfg.Name, bulkReceipt.Items[0].BatchNo)

	// La salida de llenado agota primero el lote A0 y toma el resto del lote nuevo.
	fillingIssue := linked[2]
	require.Len(t, fillingIssue.Items, 2)
	assert.Equal(t, "A0", fillingIssue.Items[0].BatchNo)
	assert.True(t, fillingIssue.Items[0].Qty.Equal(qty(2)))
	assert.Equal(t, mfg.Name, fillingIssue.Items[1].BatchNo)
	assert.True(t, fillingIssue.Items[1].Qty.Equal(qty(10)))
	assert.Equal(t, 2, fillingIssue.Items[1].Idx)

	assert.True(t, f.balance(t, "PINT", "WIP").Equal(qty(2)))
	batches, err := f.query.Batches(ctx, company, "WIP", f.day)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "A0", batches[0].BatchNo)
	assert.True(t, batches[0].Qty.IsZero())
	assert.Equal(t, mfg.Name, batches[1].BatchNo)
	assert.True(t, batches[1].Qty.Equal(qty(2)))
}

func TestStockEntry_NoTinturadoNoGenera(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.receive(t, &entity.StockEntryDetail{ItemCode: "RESINA", Qty: qty(10), TWarehouse: "Stores"})

	e := f.tintedManufacture()
	e.IsTinted = false
	e.TintingItems[1].ProducedQty = qty(99)
	saved, err := f.entries.Save(ctx, company, "u1", e)
	require.NoError(t, err)
	// La sincronización no depende de custom_is_tinted.
	assert.Len(t, saved.Entry.FillingDetails, 1)

	_, err = f.entries.Submit(ctx, company, "u1", saved.Entry.ID)
	require.NoError(t, err)
	linked, err := f.entries.ListLinked(ctx, company, saved.Entry.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
	assert.True(t, f.balance(t, "BASE", "WIP").Equal(qty(20)))
}

func TestStockEntry_EstadosYEmpresa(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	e := f.receive(t, &entity.StockEntryDetail{ItemCode: "RESINA", Qty: qty(5), TWarehouse: "Stores"})

	_, err := f.entries.Submit(ctx, company, "u1", e.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.entries.Save(ctx, company, "u1", e)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.entries.Get(ctx, "otra", e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.entries.List(ctx, repository.StockEntryFilter{CompanyID: company})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.name(1), list[0].Name)
}

func TestStockEntry_ValidacionBase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	cases := []struct {
		name string
		e    *entity.StockEntry
		msg  string
	}{
		{
			name: "tipo inválido",
			e:    &entity.StockEntry{StockEntryType: "Transfer"},
			msg:  `Invalid Stock Entry Type "Transfer"`,
		},
		{
			name: "issue sin bodega origen",
			e: &entity.StockEntry{StockEntryType: entity.StockEntryTypeMaterialIssue, Items: []*entity.StockEntryDetail{
				{ItemCode: "RESINA", Qty: qty(1)},
			}},
			msg: "Row #1: Source Warehouse is required for Material Issue",
		},
		{
			name: "artículo inexistente",
			e: &entity.StockEntry{StockEntryType: entity.StockEntryTypeMaterialReceipt, Items: []*entity.StockEntryDetail{
				{ItemCode: "NOPE", Qty: qty(1), TWarehouse: "Stores"},
			}},
			msg: "Item NOPE not found",
		},
		{
			name: "lote obligatorio",
			e: &entity.StockEntry{StockEntryType: entity.StockEntryTypeMaterialReceipt, Items: []*entity.StockEntryDetail{
				{ItemCode: "PINT", Qty: qty(1), TWarehouse: "Stores"},
			}},
			msg: "Row #1: Batch No is required for item PINT",
		},
		{
			name: "bodega de otra empresa",
			e: &entity.StockEntry{StockEntryType: entity.StockEntryTypeMaterialReceipt, Items: []*entity.StockEntryDetail{
				{ItemCode: "RESINA", Qty: qty(1), TWarehouse: "Remota"},
			}},
			msg: "Warehouse Remota not found",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.entries.Save(ctx, company, "u1", tc.e)
			requireValidation(t, err, tc.msg)
		})
	}
}
