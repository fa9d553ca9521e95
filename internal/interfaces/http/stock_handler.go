package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/manufactura-api/internal/application/dto"
	"github.com/jhoicas/manufactura-api/internal/application/stock"
)

// StockHandler consultas de saldos (protegido).
type StockHandler struct {
	uc *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.QueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Balance godoc
// @Summary      Saldo de un artículo en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_code  query  string  true  "Artículo"
// @Param        warehouse  query  string  true  "Bodega"
// @Success      200  {object}  dto.StockBalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.StockBalanceRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_code y warehouse son requeridos", Fields: validationFields(err)})
	}
	b, err := h.uc.Balance(c.UserContext(), companyID, in.ItemCode, in.Warehouse, time.Time{})
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(dto.StockBalanceResponse{
		ItemCode:      b.ItemCode,
		Warehouse:     b.Warehouse,
		Qty:           b.Qty,
		ValuationRate: b.ValuationRate,
		At:            b.At,
	})
}

// Batches godoc
// @Summary      Saldos por lote de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse     query  string  true   "Bodega"
// @Param        posting_date  query  string  false  "YYYY-MM-DD (hoy por defecto)"
// @Success      200  {object}  dto.BatchBalanceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/batches [get]
func (h *StockHandler) Batches(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	warehouse := c.Query("warehouse")
	if warehouse == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse es requerido"})
	}
	date, err := parseDate(c.Query("posting_date"))
	if err != nil {
		return writeError(c, err, "")
	}
	list, err := h.uc.Batches(c.UserContext(), companyID, warehouse, date)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(toBatchList(warehouse, date, list))
}
