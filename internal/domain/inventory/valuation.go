package inventory

import "github.com/shopspring/decimal"

// MovingAverageRate promedio ponderado móvil (servicio de dominio).
// NuevaTasa = ((QtyActual * TasaActual) + (QtyEntrada * TasaEntrada)) / (QtyActual + QtyEntrada)
// Con stock actual negativo o nulo la tasa de entrada reemplaza a la anterior.
func MovingAverageRate(currentQty, currentRate, incomingQty, incomingRate decimal.Decimal) decimal.Decimal {
	if currentQty.LessThanOrEqual(decimal.Zero) {
		return incomingRate
	}
	sum := currentQty.Add(incomingQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentQty.Mul(currentRate).Add(incomingQty.Mul(incomingRate))
	return num.Div(sum).Round(6)
}
