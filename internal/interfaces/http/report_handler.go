package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventapro-api/internal/application/dto"
	"github.com/jhoicas/ventapro-api/internal/application/report"
	"github.com/jhoicas/ventapro-api/internal/domain"
)

// ReportHandler maneja los endpoints de reportes de rentabilidad.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// GetProfitReport godoc
// @Summary      Reporte de rentabilidad filtrado y paginado
// @Description  Clasifica los pedidos por canal, calcula el desglose de ganancia
//               (comisiones de marketplace, empaque, costos externos) y agrega
//               estadísticas con rollups por producto, tienda y día.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        channel    query  string  false  "ecommerce | retail | wholesale"
// @Param        platform   query  string  false  "Marketplace (con sinónimos: 'tiktok shop' ≡ 'tiktok')"
// @Param        store_id   query  string  false  "Tienda; vacío = la del token, 'all' = todas"
// @Param        from       query  string  false  "Inicio del rango (YYYY-MM-DD), inclusive"
// @Param        to         query  string  false  "Fin del rango (YYYY-MM-DD), inclusive fin de día"
// @Param        search     query  string  false  "Substring sobre producto, SKU o ID"
// @Param        page       query  int     false  "Página 1-indexada"
// @Param        page_size  query  int     false  "Tamaño de página (default 10)"
// @Success      200  {object}  dto.ReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/profit [get]
func (h *ReportHandler) GetProfitReport(c *fiber.Ctx) error {
	var req dto.ReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}
	if req.StoreID == "" {
		req.StoreID = GetStoreID(c)
	}

	reportDTO, err := h.uc.GenerateReport(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidFilter):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "INVALID_FILTER", Message: err.Error(),
			})
		case errors.Is(err, domain.ErrSuperseded):
			// Una solicitud más nueva reemplazó a esta; el cliente ya pidió otra cosa.
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code: "SUPERSEDED", Message: err.Error(),
			})
		case errors.Is(err, domain.ErrOrdersUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "ORDERS_UNAVAILABLE", Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code: "INTERNAL", Message: err.Error(),
			})
		}
	}
	return c.JSON(reportDTO)
}

// PreviewOrderProfit godoc
// @Summary      Vista previa del desglose de ganancia de un pedido
// @Description  Recibe un pedido crudo (forma del almacén de documentos), lo
//               normaliza, clasifica y calcula su desglose con la configuración
//               vigente. No persiste nada.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.OrderProfitDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit/preview [post]
func (h *ReportHandler) PreviewOrderProfit(c *fiber.Ctx) error {
	var raw dto.RawOrder
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo del pedido inválido",
		})
	}
	if raw.StoreID == "" {
		raw.StoreID = GetStoreID(c)
	}

	order, _ := raw.Normalize()
	return c.JSON(h.uc.ComputeOrderProfit(c.Context(), order))
}
