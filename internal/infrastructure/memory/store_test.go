package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/manufactura-api/internal/domain"
	"github.com/jhoicas/manufactura-api/internal/domain/entity"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

func TestRun_RollbackAlFallar(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos repository.TxRepos) error {
		require.NoError(t, repos.Items.Create(ctx, &entity.Item{CompanyID: "c1", ItemCode: "BASE"}))
		_, err := repos.Naming.Next(ctx, "MAT-STE-2026-")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	it, err := s.Repos().Items.Get(ctx, "c1", "BASE")
	require.NoError(t, err)
	assert.Nil(t, it)
	n, err := s.Repos().Naming.Next(ctx, "MAT-STE-2026-")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRun_Commit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Run(ctx, func(repos repository.TxRepos) error {
		return repos.Warehouses.Create(ctx, &entity.Warehouse{CompanyID: "c1", ID: "Stores"})
	}))
	wh, err := s.Repos().Warehouses.Get(ctx, "c1", "Stores")
	require.NoError(t, err)
	require.NotNil(t, wh)

	other, err := s.Repos().Warehouses.Get(ctx, "c2", "Stores")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestStockEntry_CopiasIndependientes(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Repos().StockEntries
	e := &entity.StockEntry{ID: "e1", Name: "MAT-STE-2026-00001", CompanyID: "c1"}
	e.AppendItem(&entity.StockEntryDetail{ItemCode: "BASE", Qty: decimal.NewFromInt(1)})
	require.NoError(t, repo.Create(ctx, e))

	e.Items[0].ItemCode = "OTRO"
	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "BASE", got.Items[0].ItemCode)

	assert.ErrorIs(t, repo.Create(ctx, &entity.StockEntry{ID: "e2", Name: e.Name}), domain.ErrDuplicate)
}

func TestLedger_SaldosPorFecha(t *testing.T) {
	ctx := context.Background()
	ledger := NewStore().Repos().Ledger
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, sle := range []entity.StockLedgerEntry{
		{CompanyID: "c1", ItemCode: "PINT", Warehouse: "WH", BatchNo: "L1", PostingDateTime: day.Add(8 * time.Hour), ActualQty: decimal.NewFromInt(10), ValuationRate: decimal.NewFromInt(5)},
		{CompanyID: "c1", ItemCode: "PINT", Warehouse: "WH", BatchNo: "L2", PostingDateTime: day.Add(9 * time.Hour), ActualQty: decimal.NewFromInt(4), ValuationRate: decimal.NewFromInt(6)},
		{CompanyID: "c1", ItemCode: "PINT", Warehouse: "WH", BatchNo: "L1", PostingDateTime: day.Add(10 * time.Hour), ActualQty: decimal.NewFromInt(-10), ValuationRate: decimal.NewFromInt(6)},
		{CompanyID: "c1", ItemCode: "PINT", Warehouse: "WH", BatchNo: "L3", PostingDateTime: day.AddDate(0, 0, 1), ActualQty: decimal.NewFromInt(7), ValuationRate: decimal.NewFromInt(7)},
	} {
		sle := sle
		require.NoError(t, ledger.CreateEntry(ctx, &sle))
	}

	batches, err := ledger.GetItemwiseBatch(ctx, "c1", "WH", day)
	require.NoError(t, err)
	got := batches[entity.ItemWarehouse{ItemCode: "PINT", Warehouse: "WH"}]
	require.Len(t, got, 2)
	assert.Equal(t, "L1", got[0].BatchNo)
	assert.True(t, got[0].Qty.IsZero())
	assert.Equal(t, "L2", got[1].BatchNo)
	assert.True(t, got[1].Qty.Equal(decimal.NewFromInt(4)))

	qty, rate, err := ledger.GetStockBalance(ctx, "c1", "PINT", "WH", day.Add(12*time.Hour))
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(4)))
	assert.True(t, rate.Equal(decimal.NewFromInt(6)))

	l2, err := ledger.GetBatchBalance(ctx, "c1", "PINT", "WH", "L2", day.Add(12*time.Hour))
	require.NoError(t, err)
	assert.True(t, l2.Equal(decimal.NewFromInt(4)))
}

func TestLedger_BinNuevoEnCero(t *testing.T) {
	bin, err := NewStore().Repos().Ledger.GetBinForUpdate(context.Background(), "c1", "PINT", "WH")
	require.NoError(t, err)
	assert.Equal(t, "PINT", bin.ItemCode)
	assert.True(t, bin.ActualQty.IsZero())
}
