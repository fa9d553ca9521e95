package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/manufactura-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMovingAverageRate_Ponderado(t *testing.T) {
	// 10 u a 100 + 10 u a 200 = 150
	got := inventory.MovingAverageRate(d("10"), d("100"), d("10"), d("200"))
	assert.True(t, got.Equal(d("150")), "got %s", got)
}

func TestMovingAverageRate_SinStockPrevio(t *testing.T) {
	got := inventory.MovingAverageRate(decimal.Zero, d("80"), d("5"), d("42.5"))
	assert.True(t, got.Equal(d("42.5")), "got %s", got)
}

func TestMovingAverageRate_StockNegativo(t *testing.T) {
	got := inventory.MovingAverageRate(d("-3"), d("10"), d("5"), d("12"))
	assert.True(t, got.Equal(d("12")), "got %s", got)
}
