package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventapro-api/internal/application/dto"
	"github.com/jhoicas/ventapro-api/internal/application/settings"
	"github.com/jhoicas/ventapro-api/internal/domain"
)

// SettingsHandler maneja la configuración de comisiones, costos externos y
// escalones de empaque.
type SettingsHandler struct {
	uc *settings.UseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *settings.UseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// GetPlatformFees devuelve la configuración efectiva de comisiones de una
// plataforma para la tienda del token (con fallback tienda → global → vacía).
func (h *SettingsHandler) GetPlatformFees(c *fiber.Ctx) error {
	platform := c.Params("platform")
	cfg := h.uc.GetPlatformFees(c.Context(), GetStoreID(c), platform)
	return c.JSON(cfg)
}

// SavePlatformFees guarda las comisiones de la plataforma (de la tienda, o
// globales si el cuerpo trae global=true) e invalida el caché del resolutor.
func (h *SettingsHandler) SavePlatformFees(c *fiber.Ctx) error {
	platform := c.Params("platform")

	var req dto.SaveFeeConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de configuración inválido",
		})
	}

	if err := h.uc.SavePlatformFees(c.Context(), GetStoreID(c), platform, req); err != nil {
		return settingsError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetExternalCosts devuelve los costos operativos de la tienda del token.
func (h *SettingsHandler) GetExternalCosts(c *fiber.Ctx) error {
	cfg := h.uc.GetExternalCosts(c.Context(), GetStoreID(c))
	return c.JSON(cfg)
}

// SaveExternalCosts guarda los costos operativos de la tienda e invalida el caché.
func (h *SettingsHandler) SaveExternalCosts(c *fiber.Ctx) error {
	var req dto.SaveExternalCostsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de configuración inválido",
		})
	}

	if err := h.uc.SaveExternalCosts(c.Context(), GetStoreID(c), req); err != nil {
		return settingsError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPackagingTiers devuelve la tabla de escalones de empaque.
func (h *SettingsHandler) GetPackagingTiers(c *fiber.Ctx) error {
	return c.JSON(h.uc.GetPackagingTiers(c.Context()))
}

// SavePackagingTiers reemplaza la tabla de escalones e invalida el caché.
func (h *SettingsHandler) SavePackagingTiers(c *fiber.Ctx) error {
	var req dto.SavePackagingTiersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de escalones inválido",
		})
	}

	if err := h.uc.SavePackagingTiers(c.Context(), req); err != nil {
		return settingsError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// settingsError traduce errores del caso de uso a códigos HTTP.
func settingsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_INPUT", Message: err.Error(),
		})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "DUPLICATE", Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
}
