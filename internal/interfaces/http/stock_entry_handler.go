package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/manufactura-api/internal/application/dto"
	"github.com/jhoicas/manufactura-api/internal/application/stock"
	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

const stockEntryNotFound = "stock entry no encontrado"

// StockEntryHandler Stock Entries (protegido).
type StockEntryHandler struct {
	uc     *stock.StockEntryUseCase
	report *stock.ReportUseCase
}

// NewStockEntryHandler construye el handler. report puede ser nil (sin PDF).
func NewStockEntryHandler(uc *stock.StockEntryUseCase, report *stock.ReportUseCase) *StockEntryHandler {
	return &StockEntryHandler{uc: uc, report: report}
}

// Create godoc
// @Summary      Crear borrador de Stock Entry
// @Tags         stock-entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockEntryRequest  true  "Documento con items, custom_tinting_items y custom_filling_details"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-entries [post]
func (h *StockEntryHandler) Create(c *fiber.Ctx) error {
	return h.save(c, "", fiber.StatusCreated)
}

// Update godoc
// @Summary      Actualizar borrador de Stock Entry
// @Tags         stock-entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID"
// @Param        body  body  dto.StockEntryRequest  true  "Documento completo; reemplaza las filas"
// @Success      200   {object}  dto.StockEntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id} [put]
func (h *StockEntryHandler) Update(c *fiber.Ctx) error {
	return h.save(c, c.Params("id"), fiber.StatusOK)
}

func (h *StockEntryHandler) save(c *fiber.Ctx, id string, status int) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.StockEntryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	entry, err := toStockEntry(in)
	if err != nil {
		return writeError(c, err, "")
	}
	entry.ID = id
	res, err := h.uc.Save(c.UserContext(), companyID, userID, entry)
	if err != nil {
		return writeError(c, err, stockEntryNotFound)
	}
	return c.Status(status).JSON(toStockEntryResponse(res.Entry, res.Messages))
}

// Submit godoc
// @Summary      Confirmar Stock Entry
// @Description  Valida, contabiliza en el libro de stock y, si es un Manufacture tinturado,
//
//	genera y confirma las entradas de tinturado y llenado.
//
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id}/submit [post]
func (h *StockEntryHandler) Submit(c *fiber.Ctx) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	res, err := h.uc.Submit(c.UserContext(), companyID, userID, c.Params("id"))
	if err != nil {
		return writeError(c, err, stockEntryNotFound)
	}
	return c.JSON(toStockEntryResponse(res.Entry, res.Messages))
}

// Get godoc
// @Summary      Obtener Stock Entry
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id} [get]
func (h *StockEntryHandler) Get(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	e, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, stockEntryNotFound)
	}
	return c.JSON(toStockEntryResponse(e, nil))
}

// List godoc
// @Summary      Listar Stock Entries
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        stock_entry_type  query  string  false  "Manufacture, Material Issue, Material Receipt"
// @Param        docstatus         query  int     false  "0 borrador, 1 confirmado"
// @Param        limit             query  int     false  "Límite"  default(20)
// @Param        offset            query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockEntryListResponse
// @Router       /api/stock-entries [get]
func (h *StockEntryHandler) List(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	limit, offset := pagination(c)
	f := repository.StockEntryFilter{
		CompanyID:      companyID,
		StockEntryType: c.Query("stock_entry_type"),
		Limit:          limit,
		Offset:         offset,
	}
	if raw := c.Query("docstatus"); raw != "" {
		ds, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "docstatus debe ser 0 o 1"})
		}
		f.DocStatus = &ds
	}
	list, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, err, "")
	}
	out := dto.StockEntryListResponse{
		Items: make([]dto.StockEntryResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, e := range list {
		out.Items = append(out.Items, toStockEntryResponse(e, nil))
	}
	return c.JSON(out)
}

// Linked godoc
// @Summary      Entradas generadas por un Manufacture
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del Manufacture"
// @Success      200  {array}   dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id}/linked [get]
func (h *StockEntryHandler) Linked(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.uc.ListLinked(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, stockEntryNotFound)
	}
	out := make([]dto.StockEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toStockEntryResponse(e, nil))
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Reporte de producción en PDF
// @Tags         stock-entries
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del Manufacture"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id}/pdf [get]
func (h *StockEntryHandler) PDF(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	if h.report == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "reporte PDF no disponible"})
	}
	name, pdf, err := h.report.ProductionReport(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, stockEntryNotFound)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, name))
	return c.Send(pdf)
}
