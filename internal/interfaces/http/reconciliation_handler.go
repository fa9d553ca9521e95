package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/manufactura-api/internal/application/dto"
	"github.com/jhoicas/manufactura-api/internal/application/stock"
)

const reconciliationNotFound = "stock reconciliation no encontrado"

// ReconciliationHandler Stock Reconciliations (protegido).
type ReconciliationHandler struct {
	uc *stock.ReconciliationUseCase
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(uc *stock.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear borrador de Stock Reconciliation
// @Description  Completa con cantidad cero los lotes con saldo que no estén en las filas.
// @Tags         stock-reconciliations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockReconciliationRequest  true  "Filas de conteo"
// @Success      201   {object}  dto.StockReconciliationResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-reconciliations [post]
func (h *ReconciliationHandler) Create(c *fiber.Ctx) error {
	return h.save(c, "", fiber.StatusCreated)
}

// Update godoc
// @Summary      Actualizar borrador de Stock Reconciliation
// @Tags         stock-reconciliations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID"
// @Param        body  body  dto.StockReconciliationRequest  true  "Filas de conteo"
// @Success      200   {object}  dto.StockReconciliationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-reconciliations/{id} [put]
func (h *ReconciliationHandler) Update(c *fiber.Ctx) error {
	return h.save(c, c.Params("id"), fiber.StatusOK)
}

func (h *ReconciliationHandler) save(c *fiber.Ctx, id string, status int) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.StockReconciliationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	reco, err := toReconciliation(in)
	if err != nil {
		return writeError(c, err, "")
	}
	reco.ID = id
	res, err := h.uc.Save(c.UserContext(), companyID, userID, reco)
	if err != nil {
		return writeError(c, err, reconciliationNotFound)
	}
	return c.Status(status).JSON(toReconciliationResponse(res.Reconciliation, res.Messages))
}

// Submit godoc
// @Summary      Confirmar Stock Reconciliation
// @Tags         stock-reconciliations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.StockReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-reconciliations/{id}/submit [post]
func (h *ReconciliationHandler) Submit(c *fiber.Ctx) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	res, err := h.uc.Submit(c.UserContext(), companyID, userID, c.Params("id"))
	if err != nil {
		return writeError(c, err, reconciliationNotFound)
	}
	return c.JSON(toReconciliationResponse(res.Reconciliation, res.Messages))
}

// Get godoc
// @Summary      Obtener Stock Reconciliation
// @Tags         stock-reconciliations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.StockReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-reconciliations/{id} [get]
func (h *ReconciliationHandler) Get(c *fiber.Ctx) error {
	companyID, _, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	reco, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err, reconciliationNotFound)
	}
	return c.JSON(toReconciliationResponse(reco, nil))
}

// Import godoc
// @Summary      Importar conteo desde Excel
// @Description  Columnas: item_code, warehouse, batch_no, qty, valuation_rate. Crea un borrador.
// @Tags         stock-reconciliations
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file          formData  file    true   "Archivo .xlsx"
// @Param        posting_date  formData  string  false  "YYYY-MM-DD"
// @Param        posting_time  formData  string  false  "HH:MM:SS"
// @Success      201  {object}  dto.StockReconciliationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock-reconciliations/import [post]
func (h *ReconciliationHandler) Import(c *fiber.Ctx) error {
	companyID, userID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "archivo requerido en el campo file"})
	}
	date, err := parseDate(c.FormValue("posting_date"))
	if err != nil {
		return writeError(c, err, "")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err, "")
	}
	defer f.Close()

	res, err := h.uc.Import(c.UserContext(), companyID, userID, date, c.FormValue("posting_time"), f)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(toReconciliationResponse(res.Reconciliation, res.Messages))
}
